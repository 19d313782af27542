package queries

import (
	"context"

	"flashsale/internal/infra"
	"flashsale/internal/pkg/errs"
)

var ErrOrderAccessDenied = errs.New("order belongs to a different user")

type OrderQueries interface {
	// GetByID returns the order only to its owner. An order that was
	// admitted but not yet materialized by the worker reads as not found;
	// callers poll until the status is visible.
	GetByID(ctx context.Context, actorID, id int64) (*OrderView, error)
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actorID, id int64) (*OrderView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.UserID != actorID {
		// Indistinguishable from absent to avoid leaking order ids.
		return nil, infra.WrapRepoErr("order not found", ErrOrderAccessDenied, infra.KindNotFound)
	}
	return view, nil
}
