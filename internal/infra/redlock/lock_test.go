//go:build unit

package redlock_test

import (
	"context"
	"testing"
	"time"

	"flashsale/internal/infra/redlock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) (*redlock.Factory, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redlock.NewFactory(rdb, "lock:", 10*time.Second), mr
}

func TestLock_TryAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires a free lock", func(t *testing.T) {
		factory, mr := newFactory(t)
		lock := factory.NewLock("order:1")

		acquired, err := lock.TryAcquire(ctx)
		require.NoError(t, err)
		assert.True(t, acquired)
		assert.Equal(t, "lock:order:1", lock.Key())
		assert.True(t, mr.Exists("lock:order:1"))
	})

	t.Run("second holder is rejected without blocking", func(t *testing.T) {
		factory, _ := newFactory(t)
		first := factory.NewLock("order:1")
		second := factory.NewLock("order:1")

		acquired, err := first.TryAcquire(ctx)
		require.NoError(t, err)
		require.True(t, acquired)

		acquired, err = second.TryAcquire(ctx)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("different scopes do not contend", func(t *testing.T) {
		factory, _ := newFactory(t)

		for _, scope := range []string{"order:1", "order:2"} {
			acquired, err := factory.NewLock(scope).TryAcquire(ctx)
			require.NoError(t, err)
			assert.True(t, acquired)
		}
	})

	t.Run("lock is reacquirable after lease expiry", func(t *testing.T) {
		factory, mr := newFactory(t)

		acquired, err := factory.NewLock("order:1").TryAcquire(ctx)
		require.NoError(t, err)
		require.True(t, acquired)

		mr.FastForward(11 * time.Second)

		acquired, err = factory.NewLock("order:1").TryAcquire(ctx)
		require.NoError(t, err)
		assert.True(t, acquired)
	})
}

func TestLock_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("release by holder deletes the key", func(t *testing.T) {
		factory, mr := newFactory(t)
		lock := factory.NewLock("order:1")

		acquired, err := lock.TryAcquire(ctx)
		require.NoError(t, err)
		require.True(t, acquired)

		released, err := lock.Release(ctx)
		require.NoError(t, err)
		assert.True(t, released)
		assert.False(t, mr.Exists("lock:order:1"))
	})

	t.Run("stale holder cannot release the current lock", func(t *testing.T) {
		factory, mr := newFactory(t)
		stale := factory.NewLock("order:1")

		acquired, err := stale.TryAcquire(ctx)
		require.NoError(t, err)
		require.True(t, acquired)

		// Lease expires; a different holder takes over.
		mr.FastForward(11 * time.Second)
		current := factory.NewLock("order:1")
		acquired, err = current.TryAcquire(ctx)
		require.NoError(t, err)
		require.True(t, acquired)

		released, err := stale.Release(ctx)
		require.NoError(t, err)
		assert.False(t, released)
		assert.True(t, mr.Exists("lock:order:1"))
	})

	t.Run("release of an unheld lock is a no-op", func(t *testing.T) {
		factory, _ := newFactory(t)

		released, err := factory.NewLock("order:1").Release(ctx)
		require.NoError(t, err)
		assert.False(t, released)
	})
}
