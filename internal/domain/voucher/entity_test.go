//go:build unit

package voucher_test

import (
	"strings"
	"testing"
	"time"

	"flashsale/internal/domain/voucher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	saleBegin = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	saleEnd   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func TestNewVoucher(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		v, err := voucher.NewVoucher(1, "100 yen off", 10000, 100, saleBegin, saleEnd)
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, int64(1), v.ID())
		assert.Equal(t, "100 yen off", v.Title())
		assert.Equal(t, int64(10000), v.PayValue())
		assert.Equal(t, int32(100), v.InitialStock())
		assert.Equal(t, saleBegin, v.BeginTime())
		assert.Equal(t, saleEnd, v.EndTime())
	})

	testCases := []struct {
		name      string
		title     string
		payValue  int64
		stock     int32
		beginTime time.Time
		endTime   time.Time
		errIs     error
	}{
		{
			name:      "empty title",
			title:     "",
			payValue:  10000,
			stock:     100,
			beginTime: saleBegin,
			endTime:   saleEnd,
			errIs:     voucher.ErrEmptyTitle,
		},
		{
			name:      "title exceeds maximum length",
			title:     strings.Repeat("a", voucher.MaxTitleLength+1),
			payValue:  10000,
			stock:     100,
			beginTime: saleBegin,
			endTime:   saleEnd,
			errIs:     voucher.ErrEmptyTitle,
		},
		{
			name:      "zero pay value",
			title:     "voucher",
			payValue:  0,
			stock:     100,
			beginTime: saleBegin,
			endTime:   saleEnd,
			errIs:     voucher.ErrInvalidPayValue,
		},
		{
			name:      "zero stock",
			title:     "voucher",
			payValue:  10000,
			stock:     0,
			beginTime: saleBegin,
			endTime:   saleEnd,
			errIs:     voucher.ErrInvalidStock,
		},
		{
			name:      "negative stock",
			title:     "voucher",
			payValue:  10000,
			stock:     -1,
			beginTime: saleBegin,
			endTime:   saleEnd,
			errIs:     voucher.ErrInvalidStock,
		},
		{
			name:      "end before begin",
			title:     "voucher",
			payValue:  10000,
			stock:     100,
			beginTime: saleEnd,
			endTime:   saleBegin,
			errIs:     voucher.ErrInvalidWindow,
		},
		{
			name:      "end equals begin",
			title:     "voucher",
			payValue:  10000,
			stock:     100,
			beginTime: saleBegin,
			endTime:   saleBegin,
			errIs:     voucher.ErrInvalidWindow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := voucher.NewVoucher(1, tc.title, tc.payValue, tc.stock, tc.beginTime, tc.endTime)
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestVoucher_ValidateWindow(t *testing.T) {
	v, err := voucher.NewVoucher(1, "voucher", 10000, 100, saleBegin, saleEnd)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		now   time.Time
		errIs error
	}{
		{
			name: "inside the window",
			now:  saleBegin.Add(time.Hour),
		},
		{
			name: "exactly at begin",
			now:  saleBegin,
		},
		{
			name: "exactly at end",
			now:  saleEnd,
		},
		{
			name:  "before the window",
			now:   saleBegin.Add(-time.Second),
			errIs: voucher.ErrSaleNotStarted,
		},
		{
			name:  "after the window",
			now:   saleEnd.Add(time.Second),
			errIs: voucher.ErrSaleEnded,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateWindow(tc.now)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}
