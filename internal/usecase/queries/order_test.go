//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"flashsale/internal/infra"
	"flashsale/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderReadStore struct {
	view *queries.OrderView
	err  error
}

func (f *fakeOrderReadStore) FindByID(_ context.Context, _ int64) (*queries.OrderView, error) {
	return f.view, f.err
}

func TestOrderQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	view := &queries.OrderView{
		ID:        1001,
		UserID:    42,
		VoucherID: 7,
		Status:    "committed",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("owner sees the order", func(t *testing.T) {
		q := queries.NewOrderQueries(&fakeOrderReadStore{view: view})

		got, err := q.GetByID(ctx, 42, 1001)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("other users see not found, not forbidden", func(t *testing.T) {
		q := queries.NewOrderQueries(&fakeOrderReadStore{view: view})

		_, err := q.GetByID(ctx, 43, 1001)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("missing order propagates not found", func(t *testing.T) {
		q := queries.NewOrderQueries(&fakeOrderReadStore{
			err: infra.WrapRepoErr("order not found", nil, infra.KindNotFound),
		})

		_, err := q.GetByID(ctx, 42, 1001)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
