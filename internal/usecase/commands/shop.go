package commands

import (
	"context"

	"flashsale/internal/domain/shop"
	"flashsale/internal/infra"
	"flashsale/internal/infra/db"
	"flashsale/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrShopNotFound = errs.New("shop not found")

type UpdateShopParams struct {
	ID      int64
	Name    string
	Address string
}

type ShopCommands interface {
	UpdateShop(ctx context.Context, p UpdateShopParams) error
}

type shopUseCaseImpl struct {
	repo    ShopRepository
	evicter ShopCacheEvicter
	pool    *pgxpool.Pool
}

func NewShopCommands(repo ShopRepository, evicter ShopCacheEvicter, pool *pgxpool.Pool) ShopCommands {
	return &shopUseCaseImpl{repo: repo, evicter: evicter, pool: pool}
}

// UpdateShop writes the store first and drops the cache entry after commit,
// so a racing reader can at worst reload the pre-update row for one TTL.
func (u *shopUseCaseImpl) UpdateShop(ctx context.Context, p UpdateShopParams) error {
	entity, err := shop.NewShop(p.ID, p.Name, p.Address)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	_, err = db.RunInTxWithRetry(ctx, u.pool, 3, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, u.repo.Update(ctx, tx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrShopNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return u.evicter.Evict(ctx, p.ID)
}
