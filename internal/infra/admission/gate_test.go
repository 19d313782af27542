//go:build unit

package admission_test

import (
	"context"
	"strconv"
	"testing"

	"flashsale/internal/infra/admission"
	"flashsale/internal/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) (*admission.Gate, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.SeckillConfig{
		Stream:      "stream.orders",
		Group:       "g1",
		Consumer:    "c1",
		StockPrefix: "seckill:stock:",
		DedupPrefix: "seckill:order:",
	}

	return admission.NewGate(rdb, cfg), rdb
}

func TestGate_Attempt(t *testing.T) {
	ctx := context.Background()

	t.Run("admits, decrements stock and enqueues atomically", func(t *testing.T) {
		gate, rdb := newGate(t)
		require.NoError(t, gate.PrewarmStock(ctx, 7, 10))

		result, err := gate.Attempt(ctx, 7, 42, 1001)
		require.NoError(t, err)
		assert.Equal(t, admission.ResultAdmitted, result)

		stock, err := rdb.Get(ctx, "seckill:stock:7").Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(9), stock)

		member, err := rdb.SIsMember(ctx, "seckill:order:7", "42").Result()
		require.NoError(t, err)
		assert.True(t, member)

		msgs, err := rdb.XRange(ctx, "stream.orders", "-", "+").Result()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "42", msgs[0].Values["userId"])
		assert.Equal(t, "7", msgs[0].Values["voucherId"])
		assert.Equal(t, "1001", msgs[0].Values["orderId"])
	})

	t.Run("rejects a repeat purchase without touching stock", func(t *testing.T) {
		gate, rdb := newGate(t)
		require.NoError(t, gate.PrewarmStock(ctx, 7, 10))

		result, err := gate.Attempt(ctx, 7, 42, 1001)
		require.NoError(t, err)
		require.Equal(t, admission.ResultAdmitted, result)

		result, err = gate.Attempt(ctx, 7, 42, 1002)
		require.NoError(t, err)
		assert.Equal(t, admission.ResultDuplicate, result)

		stock, err := rdb.Get(ctx, "seckill:stock:7").Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(9), stock)

		msgs, err := rdb.XRange(ctx, "stream.orders", "-", "+").Result()
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("exhausted stock rejects without enqueueing", func(t *testing.T) {
		gate, rdb := newGate(t)
		require.NoError(t, gate.PrewarmStock(ctx, 7, 1))

		result, err := gate.Attempt(ctx, 7, 1, 1001)
		require.NoError(t, err)
		require.Equal(t, admission.ResultAdmitted, result)

		result, err = gate.Attempt(ctx, 7, 2, 1002)
		require.NoError(t, err)
		assert.Equal(t, admission.ResultSoldOut, result)

		stock, err := rdb.Get(ctx, "seckill:stock:7").Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(0), stock)

		msgs, err := rdb.XRange(ctx, "stream.orders", "-", "+").Result()
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	})

	t.Run("missing stock counter reads as sold out", func(t *testing.T) {
		gate, _ := newGate(t)

		result, err := gate.Attempt(ctx, 99, 42, 1001)
		require.NoError(t, err)
		assert.Equal(t, admission.ResultSoldOut, result)
	})

	t.Run("admissions never exceed the prewarmed stock", func(t *testing.T) {
		gate, rdb := newGate(t)
		require.NoError(t, gate.PrewarmStock(ctx, 7, 5))

		admitted := 0
		for user := int64(1); user <= 10; user++ {
			result, err := gate.Attempt(ctx, 7, user, 1000+user)
			require.NoError(t, err)
			if result == admission.ResultAdmitted {
				admitted++
			} else {
				assert.Equal(t, admission.ResultSoldOut, result)
			}
		}
		assert.Equal(t, 5, admitted)

		msgs, err := rdb.XRange(ctx, "stream.orders", "-", "+").Result()
		require.NoError(t, err)
		assert.Len(t, msgs, 5)

		dedup, err := rdb.SCard(ctx, "seckill:order:7").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(5), dedup)
	})

	t.Run("vouchers are isolated from each other", func(t *testing.T) {
		gate, rdb := newGate(t)
		require.NoError(t, gate.PrewarmStock(ctx, 1, 1))
		require.NoError(t, gate.PrewarmStock(ctx, 2, 1))

		result, err := gate.Attempt(ctx, 1, 42, 1001)
		require.NoError(t, err)
		require.Equal(t, admission.ResultAdmitted, result)

		// The same user may buy a different voucher.
		result, err = gate.Attempt(ctx, 2, 42, 1002)
		require.NoError(t, err)
		assert.Equal(t, admission.ResultAdmitted, result)

		for _, id := range []int64{1, 2} {
			stock, err := rdb.Get(ctx, "seckill:stock:"+strconv.FormatInt(id, 10)).Int64()
			require.NoError(t, err)
			assert.Equal(t, int64(0), stock)
		}
	})
}
