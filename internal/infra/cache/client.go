// Package cache is a read-through shield in front of the persistent store.
// It covers the two ways a hot read path can collapse the store:
//
//   - penetration: repeated lookups for a key that does not exist anywhere.
//     A loader miss writes a short-lived empty marker so follow-up reads
//     return not-found without touching the loader.
//   - breakdown: loss of coverage for one hot key at expiry. The mutex
//     variant lets one caller rebuild synchronously while the rest retry
//     with a capped backoff; the logical-expiry variant never lets the key
//     physically expire and rebuilds asynchronously, trading bounded
//     staleness for zero read-path latency.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"flashsale/internal/infra/redlock"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrCacheMiss is the typed not-found of every read path: empty-marker
	// hit, loader miss, or an un-warmed logical-expiry key.
	ErrCacheMiss = errs.New("cache miss")
	// ErrCacheContention: the mutex rebuild stayed locked past the retry cap.
	ErrCacheContention = errs.New("cache rebuild contention")
)

// Loader fetches the value from the source of truth. Returning (nil, nil)
// means the key does not exist there.
type Loader[T any] func(ctx context.Context) (*T, error)

type Client struct {
	rdb   *redis.Client
	clock clock.Clock
	locks *redlock.Factory

	emptyMarkerTTL time.Duration
	retryWait      time.Duration
	retryLimit     int

	// rebuilds is the bounded pool for logical-expiry reconstruction;
	// owned here, drained in Close (no implicit global executors).
	rebuilds *errgroup.Group
}

func NewClient(rdb *redis.Client, clk clock.Clock, locks *redlock.Factory, cfg config.CacheConfig) *Client {
	pool := &errgroup.Group{}
	pool.SetLimit(cfg.RebuildWorkers)

	return &Client{
		rdb:            rdb,
		clock:          clk,
		locks:          locks,
		emptyMarkerTTL: cfg.EmptyMarkerTTL,
		retryWait:      cfg.MutexRetryWait,
		retryLimit:     cfg.MutexRetryLimit,
		rebuilds:       pool,
	}
}

// Close waits for in-flight rebuilds. Wired to process shutdown.
func (c *Client) Close() error {
	return c.rebuilds.Wait()
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// envelope is the single storage format for every entry, so the read
// strategies can share keys: ExpireAt tracks logical freshness, and plain
// entries additionally carry a physical TTL.
type envelope[T any] struct {
	Data     *T        `json:"data"`
	ExpireAt time.Time `json:"expire_at"`
}

// Set writes a physically-expiring entry.
func Set[T any](ctx context.Context, c *Client, key string, value *T, ttl time.Duration) error {
	payload, err := json.Marshal(envelope[T]{
		Data:     value,
		ExpireAt: c.clock.Now().Add(ttl),
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal cache value")
	}
	return c.rdb.Set(ctx, key, payload, ttl).Err()
}

// SetWithLogicalExpire pre-warms or rewrites a hot key. The entry never
// physically expires; ttl only sets the logical freshness horizon.
func SetWithLogicalExpire[T any](ctx context.Context, c *Client, key string, value *T, ttl time.Duration) error {
	payload, err := json.Marshal(envelope[T]{
		Data:     value,
		ExpireAt: c.clock.Now().Add(ttl),
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal cache envelope")
	}
	return c.rdb.Set(ctx, key, payload, 0).Err()
}

// GetWithPenetrationGuard is the plain read-through path. A loader miss is
// cached as an empty marker for emptyMarkerTTL, so a key proven absent hits
// the loader at most once per marker window.
func GetWithPenetrationGuard[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load Loader[T]) (*T, error) {
	value, hit, err := readEntry[T](ctx, c, key)
	if err != nil {
		return nil, err
	}
	if hit {
		if value == nil {
			return nil, ErrCacheMiss // empty marker
		}
		return value, nil
	}

	return loadAndFill(ctx, c, key, ttl, load)
}

// GetWithMutexRebuild handles breakdown with a derived mutex: on physical
// miss only the lock winner reloads; everyone else waits a bounded interval
// and retries the whole read. Attempts are capped (see DESIGN.md).
func GetWithMutexRebuild[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load Loader[T]) (*T, error) {
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		value, hit, err := readEntry[T](ctx, c, key)
		if err != nil {
			return nil, err
		}
		if hit {
			if value == nil {
				return nil, ErrCacheMiss
			}
			return value, nil
		}

		lock := c.locks.NewLock("cache:" + key)
		acquired, err := lock.TryAcquire(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "failed to acquire cache rebuild lock")
		}
		if !acquired {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryWait):
			}
			continue
		}

		value, err = func() (*T, error) {
			defer func() {
				if _, releaseErr := lock.Release(ctx); releaseErr != nil {
					slog.Warn("failed to release cache rebuild lock", "key", key, "error", releaseErr)
				}
			}()
			return loadAndFill(ctx, c, key, ttl, load)
		}()
		return value, err
	}

	return nil, ErrCacheContention
}

// GetWithLogicalExpire serves pre-warmed hot keys. A stale read dispatches
// at most one asynchronous rebuild (lock-gated, bounded pool) and returns
// the current payload immediately regardless of lock outcome. A true miss
// is not handled here: callers are responsible for pre-warming.
func GetWithLogicalExpire[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load Loader[T]) (*T, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to read cache entry")
	}
	if raw == "" {
		return nil, ErrCacheMiss // empty marker
	}

	var env envelope[T]
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, errs.Wrap(err, "failed to decode cache envelope")
	}

	if env.ExpireAt.After(c.clock.Now()) {
		return env.Data, nil
	}

	lock := c.locks.NewLock("cache:" + key)
	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		slog.Warn("failed to acquire rebuild lock, serving stale entry", "key", key, "error", err)
		return env.Data, nil
	}
	if acquired {
		dispatched := c.rebuilds.TryGo(func() error {
			// Detached from the reader's request lifetime.
			rebuildCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			defer func() {
				if _, releaseErr := lock.Release(rebuildCtx); releaseErr != nil {
					slog.Warn("failed to release rebuild lock", "key", key, "error", releaseErr)
				}
			}()

			fresh, loadErr := load(rebuildCtx)
			if loadErr != nil {
				slog.Error("cache rebuild failed", "key", key, "error", loadErr)
				return nil
			}
			if setErr := SetWithLogicalExpire(rebuildCtx, c, key, fresh, ttl); setErr != nil {
				slog.Error("cache rewrite failed", "key", key, "error", setErr)
			}
			return nil
		})
		if !dispatched {
			// Pool saturated: give the lock back so a later reader retries.
			if _, releaseErr := lock.Release(ctx); releaseErr != nil {
				slog.Warn("failed to release rebuild lock", "key", key, "error", releaseErr)
			}
		}
	}

	// Possibly stale, bounded by the rebuild latency.
	return env.Data, nil
}

// readEntry returns (value, physicalHit, err); a hit with nil value is the
// empty marker.
func readEntry[T any](ctx context.Context, c *Client, key string) (*T, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(err, "failed to read cache entry")
	}
	if raw == "" {
		return nil, true, nil
	}

	var env envelope[T]
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, false, errs.Wrap(err, "failed to decode cache entry")
	}
	return env.Data, true, nil
}

func loadAndFill[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load Loader[T]) (*T, error) {
	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		if err := c.rdb.Set(ctx, key, "", c.emptyMarkerTTL).Err(); err != nil {
			return nil, errs.Wrap(err, "failed to write empty marker")
		}
		return nil, ErrCacheMiss
	}

	if err := Set(ctx, c, key, value, ttl); err != nil {
		return nil, err
	}
	return value, nil
}
