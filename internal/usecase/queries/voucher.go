package queries

import "context"

type VoucherQueries interface {
	GetByID(ctx context.Context, id int64) (*VoucherView, error)
}

// VoucherReadModel is implemented by the cache-shielded read store; the
// admission command reads through it as well, so this path must never fall
// back to the persistent store under hot-key contention.
type VoucherReadModel interface {
	FindByID(ctx context.Context, id int64) (*VoucherView, error)
}

type voucherQueriesImpl struct {
	store VoucherReadModel
}

func NewVoucherQueries(store VoucherReadModel) VoucherQueries {
	return &voucherQueriesImpl{store: store}
}

func (q *voucherQueriesImpl) GetByID(ctx context.Context, id int64) (*VoucherView, error) {
	return q.store.FindByID(ctx, id)
}
