package readstore

import (
	"context"

	"flashsale/internal/infra"
	"flashsale/internal/usecase/queries"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findVoucherByIDSQL = `
	SELECT v.id, v.title, v.pay_value, s.stock, v.begin_time, v.end_time
	FROM vouchers v
	JOIN voucher_stocks s ON s.voucher_id = v.id
	WHERE v.id = $1`

type VoucherReadStore struct {
	pool *pgxpool.Pool
}

func NewVoucherReadStore(pool *pgxpool.Pool) *VoucherReadStore {
	return &VoucherReadStore{pool: pool}
}

func (r *VoucherReadStore) FindByID(ctx context.Context, id int64) (*queries.VoucherView, error) {
	var view queries.VoucherView
	err := r.pool.QueryRow(ctx, findVoucherByIDSQL, id).Scan(
		&view.ID, &view.Title, &view.PayValue, &view.Stock, &view.BeginTime, &view.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voucher by ID", err)
	}
	return &view, nil
}
