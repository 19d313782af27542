package repository

import (
	"context"

	"flashsale/internal/domain/shop"
	"flashsale/internal/infra"
	"flashsale/internal/infra/db"
)

const updateShopSQL = `
	UPDATE shops
	SET name = $2, address = $3, updated_at = now()
	WHERE id = $1`

type ShopRepository struct{}

func NewShopRepository() *ShopRepository {
	return &ShopRepository{}
}

func (r *ShopRepository) Update(ctx context.Context, tx db.DBTX, s *shop.Shop) error {
	tag, err := tx.Exec(ctx, updateShopSQL, s.ID(), s.Name(), s.Address())
	if err != nil {
		return infra.WrapRepoErr("failed to update shop", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("shop not found", nil, infra.KindNotFound)
	}
	return nil
}
