//go:build unit

package order_test

import (
	"testing"
	"time"

	"flashsale/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("basic success case", func(t *testing.T) {
		o, err := order.NewOrder(100, 1, 2, createdAt)
		require.NoError(t, err)

		assert.Equal(t, int64(100), o.ID())
		assert.Equal(t, int64(1), o.UserID())
		assert.Equal(t, int64(2), o.VoucherID())
		assert.Equal(t, order.StatusAdmitted, o.Status())
		assert.Equal(t, createdAt, o.CreatedAt())
	})

	testCases := []struct {
		name      string
		id        int64
		userID    int64
		voucherID int64
		errIs     error
	}{
		{name: "zero id", id: 0, userID: 1, voucherID: 2, errIs: order.ErrInvalidID},
		{name: "zero user id", id: 100, userID: 0, voucherID: 2, errIs: order.ErrInvalidUser},
		{name: "zero voucher id", id: 100, userID: 1, voucherID: 0, errIs: order.ErrInvalidVoucher},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := order.NewOrder(tc.id, tc.userID, tc.voucherID, createdAt)
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestOrder_Transitions(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("admitted to committed", func(t *testing.T) {
		o, err := order.NewOrder(100, 1, 2, createdAt)
		require.NoError(t, err)

		require.NoError(t, o.Commit())
		assert.Equal(t, order.StatusCommitted, o.Status())
	})

	t.Run("admitted to rejected", func(t *testing.T) {
		o, err := order.NewOrder(100, 1, 2, createdAt)
		require.NoError(t, err)

		require.NoError(t, o.Reject())
		assert.Equal(t, order.StatusRejected, o.Status())
	})

	t.Run("committed is terminal", func(t *testing.T) {
		o, err := order.NewOrder(100, 1, 2, createdAt)
		require.NoError(t, err)
		require.NoError(t, o.Commit())

		assert.ErrorIs(t, o.Commit(), order.ErrInvalidTransition)
		assert.ErrorIs(t, o.Reject(), order.ErrInvalidTransition)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		o, err := order.NewOrder(100, 1, 2, createdAt)
		require.NoError(t, err)
		require.NoError(t, o.Reject())

		assert.ErrorIs(t, o.Commit(), order.ErrInvalidTransition)
	})
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, order.StatusAdmitted.Valid())
	assert.True(t, order.StatusCommitted.Valid())
	assert.True(t, order.StatusRejected.Valid())
	assert.False(t, order.Status("shipped").Valid())
}
