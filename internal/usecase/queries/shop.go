package queries

import "context"

type ShopQueries interface {
	GetByID(ctx context.Context, id int64) (*ShopView, error)
}

// ShopReadModel is implemented by the cache-shielded read store.
type ShopReadModel interface {
	FindByID(ctx context.Context, id int64) (*ShopView, error)
}

type shopQueriesImpl struct {
	store ShopReadModel
}

func NewShopQueries(store ShopReadModel) ShopQueries {
	return &shopQueriesImpl{store: store}
}

func (q *shopQueriesImpl) GetByID(ctx context.Context, id int64) (*ShopView, error) {
	return q.store.FindByID(ctx, id)
}
