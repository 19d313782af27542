//go:build unit

package idgen_test

import (
	"context"
	"testing"
	"time"

	"flashsale/internal/infra/idgen"
	"flashsale/internal/pkg/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEpoch   = int64(1735689600) // 2025-01-01T00:00:00Z
	testSeqBits = uint(32)
)

func newGenerator(t *testing.T, clk clock.Clock) *idgen.Generator {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return idgen.New(rdb, clk, testEpoch, testSeqBits)
}

func TestGenerator_NextID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("id layout is timestamp shifted over sequence", func(t *testing.T) {
		gen := newGenerator(t, clock.NewMockClock(now))

		id, err := gen.NextID(ctx, "order")
		require.NoError(t, err)

		wantTimestamp := now.Unix() - testEpoch
		assert.Equal(t, wantTimestamp, id>>testSeqBits)
		assert.Equal(t, int64(1), id&((1<<testSeqBits)-1))
	})

	t.Run("ids are strictly increasing within a second", func(t *testing.T) {
		gen := newGenerator(t, clock.NewMockClock(now))

		var prev int64
		for i := 0; i < 100; i++ {
			id, err := gen.NextID(ctx, "order")
			require.NoError(t, err)
			assert.Greater(t, id, prev)
			prev = id
		}
	})

	t.Run("namespaces have independent sequences", func(t *testing.T) {
		gen := newGenerator(t, clock.NewMockClock(now))

		first, err := gen.NextID(ctx, "order")
		require.NoError(t, err)
		other, err := gen.NextID(ctx, "refund")
		require.NoError(t, err)

		// Both are the first id of their namespace for the day.
		assert.Equal(t, first&((1<<testSeqBits)-1), other&((1<<testSeqBits)-1))
	})

	t.Run("sequence resets at day rollover", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC))
		gen := newGenerator(t, clk)

		for i := 0; i < 5; i++ {
			_, err := gen.NextID(ctx, "order")
			require.NoError(t, err)
		}

		clk.Set(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
		id, err := gen.NextID(ctx, "order")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id&((1<<testSeqBits)-1))
	})

	t.Run("later timestamps dominate earlier sequences", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		gen := newGenerator(t, clk)

		early, err := gen.NextID(ctx, "order")
		require.NoError(t, err)

		clk.Add(time.Second)
		late, err := gen.NextID(ctx, "order")
		require.NoError(t, err)

		assert.Greater(t, late, early)
	})
}
