package repository

import (
	"context"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra"
	"flashsale/internal/infra/db"
)

const (
	insertVoucherSQL = `
		INSERT INTO vouchers (title, pay_value, begin_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	insertVoucherStockSQL = `
		INSERT INTO voucher_stocks (voucher_id, stock)
		VALUES ($1, $2)`
)

type VoucherRepository struct{}

func NewVoucherRepository() *VoucherRepository {
	return &VoucherRepository{}
}

// Create inserts the voucher and its stock row in the caller's transaction.
func (r *VoucherRepository) Create(ctx context.Context, tx db.DBTX, v *voucher.Voucher) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, insertVoucherSQL,
		v.Title(), v.PayValue(), v.BeginTime(), v.EndTime(),
	).Scan(&id)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, infra.WrapRepoErr("voucher already exists", err, infra.KindDuplicateKey)
		}
		return 0, infra.WrapRepoErr("failed to insert voucher", err)
	}

	if _, err := tx.Exec(ctx, insertVoucherStockSQL, id, v.InitialStock()); err != nil {
		return 0, infra.WrapRepoErr("failed to insert voucher stock", err)
	}

	return id, nil
}
