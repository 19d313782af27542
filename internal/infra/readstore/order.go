package readstore

import (
	"context"

	"flashsale/internal/infra"
	"flashsale/internal/usecase/queries"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findOrderByIDSQL = `
	SELECT id, user_id, voucher_id, status, created_at
	FROM voucher_orders
	WHERE id = $1`

type OrderReadStore struct {
	pool *pgxpool.Pool
}

func NewOrderReadStore(pool *pgxpool.Pool) *OrderReadStore {
	return &OrderReadStore{pool: pool}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id int64) (*queries.OrderView, error) {
	var view queries.OrderView
	err := r.pool.QueryRow(ctx, findOrderByIDSQL, id).Scan(
		&view.ID, &view.UserID, &view.VoucherID, &view.Status, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}
	return &view, nil
}
