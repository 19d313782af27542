package readstore

import (
	"context"

	"flashsale/internal/infra"
	"flashsale/internal/usecase/queries"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findShopByIDSQL = `
	SELECT id, name, address, updated_at
	FROM shops
	WHERE id = $1`

// ShopReadStore is the uncached lookup; it only runs as the loader behind
// the cache shield, never directly from a handler.
type ShopReadStore struct {
	pool *pgxpool.Pool
}

func NewShopReadStore(pool *pgxpool.Pool) *ShopReadStore {
	return &ShopReadStore{pool: pool}
}

func (r *ShopReadStore) FindByID(ctx context.Context, id int64) (*queries.ShopView, error) {
	var view queries.ShopView
	err := r.pool.QueryRow(ctx, findShopByIDSQL, id).Scan(
		&view.ID, &view.Name, &view.Address, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("shop not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shop by ID", err)
	}
	return &view, nil
}
