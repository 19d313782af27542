//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"flashsale/internal/infra"
	"flashsale/internal/infra/admission"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRedisDown = errs.New("redis connection refused")

type fakeVoucherQueries struct {
	view *queries.VoucherView
	err  error
}

func (f *fakeVoucherQueries) GetByID(_ context.Context, _ int64) (*queries.VoucherView, error) {
	return f.view, f.err
}

type fakeIDGenerator struct {
	id  int64
	err error
}

func (f *fakeIDGenerator) NextID(_ context.Context, _ string) (int64, error) {
	return f.id, f.err
}

type fakeGate struct {
	result admission.Result
	err    error

	attempts  int
	voucherID int64
	userID    int64
	orderID   int64
}

func (f *fakeGate) Attempt(_ context.Context, voucherID, userID, orderID int64) (admission.Result, error) {
	f.attempts++
	f.voucherID = voucherID
	f.userID = userID
	f.orderID = orderID
	return f.result, f.err
}

func (f *fakeGate) PrewarmStock(_ context.Context, _ int64, _ int32) error {
	return nil
}

func openVoucherView(now time.Time) *queries.VoucherView {
	return &queries.VoucherView{
		ID:        7,
		Title:     "100 yen off",
		PayValue:  10000,
		Stock:     100,
		BeginTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}
}

func TestSeckillCommands_AttemptAdmission(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("admits and returns the pre-generated order id", func(t *testing.T) {
		gate := &fakeGate{result: admission.ResultAdmitted}
		uc := commands.NewSeckillCommands(
			&fakeVoucherQueries{view: openVoucherView(now)},
			&fakeIDGenerator{id: 1001},
			gate,
			clock.NewMockClock(now),
		)

		orderID, err := uc.AttemptAdmission(ctx, 7, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(1001), orderID)

		assert.Equal(t, 1, gate.attempts)
		assert.Equal(t, int64(7), gate.voucherID)
		assert.Equal(t, int64(42), gate.userID)
		assert.Equal(t, int64(1001), gate.orderID)
	})

	t.Run("window is checked before the gate runs", func(t *testing.T) {
		testCases := []struct {
			name  string
			view  *queries.VoucherView
			errIs error
		}{
			{
				name: "sale not started",
				view: &queries.VoucherView{
					ID:        7,
					BeginTime: now.Add(time.Hour),
					EndTime:   now.Add(2 * time.Hour),
				},
				errIs: commands.ErrSaleNotStarted,
			},
			{
				name: "sale ended",
				view: &queries.VoucherView{
					ID:        7,
					BeginTime: now.Add(-2 * time.Hour),
					EndTime:   now.Add(-time.Hour),
				},
				errIs: commands.ErrSaleEnded,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				gate := &fakeGate{result: admission.ResultAdmitted}
				uc := commands.NewSeckillCommands(
					&fakeVoucherQueries{view: tc.view},
					&fakeIDGenerator{id: 1001},
					gate,
					clock.NewMockClock(now),
				)

				_, err := uc.AttemptAdmission(ctx, 7, 42)
				require.ErrorIs(t, err, tc.errIs)
				assert.Equal(t, 0, gate.attempts)
			})
		}
	})

	t.Run("gate outcomes map to usecase errors", func(t *testing.T) {
		testCases := []struct {
			name   string
			result admission.Result
			errIs  error
		}{
			{name: "sold out", result: admission.ResultSoldOut, errIs: commands.ErrInsufficientStock},
			{name: "duplicate purchase", result: admission.ResultDuplicate, errIs: commands.ErrAlreadyPurchased},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				uc := commands.NewSeckillCommands(
					&fakeVoucherQueries{view: openVoucherView(now)},
					&fakeIDGenerator{id: 1001},
					&fakeGate{result: tc.result},
					clock.NewMockClock(now),
				)

				orderID, err := uc.AttemptAdmission(ctx, 7, 42)
				require.ErrorIs(t, err, tc.errIs)
				assert.Zero(t, orderID)
			})
		}
	})

	t.Run("unknown voucher", func(t *testing.T) {
		uc := commands.NewSeckillCommands(
			&fakeVoucherQueries{err: infra.WrapRepoErr("voucher not found", nil, infra.KindNotFound)},
			&fakeIDGenerator{id: 1001},
			&fakeGate{},
			clock.NewMockClock(now),
		)

		_, err := uc.AttemptAdmission(ctx, 7, 42)
		require.ErrorIs(t, err, commands.ErrVoucherNotFound)
	})

	t.Run("id generation failure aborts before the gate", func(t *testing.T) {
		gate := &fakeGate{result: admission.ResultAdmitted}
		uc := commands.NewSeckillCommands(
			&fakeVoucherQueries{view: openVoucherView(now)},
			&fakeIDGenerator{err: errRedisDown},
			gate,
			clock.NewMockClock(now),
		)

		_, err := uc.AttemptAdmission(ctx, 7, 42)
		require.ErrorIs(t, err, commands.ErrAdmissionFailed)
		assert.Equal(t, 0, gate.attempts)
	})

	t.Run("gate failure surfaces as admission failure", func(t *testing.T) {
		uc := commands.NewSeckillCommands(
			&fakeVoucherQueries{view: openVoucherView(now)},
			&fakeIDGenerator{id: 1001},
			&fakeGate{err: errRedisDown},
			clock.NewMockClock(now),
		)

		_, err := uc.AttemptAdmission(ctx, 7, 42)
		require.ErrorIs(t, err, commands.ErrAdmissionFailed)
	})
}
