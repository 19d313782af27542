package readstore

import (
	"context"
	"strconv"
	"time"

	"flashsale/internal/infra"
	"flashsale/internal/infra/cache"
	"flashsale/internal/pkg/config"
	"flashsale/internal/usecase/queries"

	"github.com/cockroachdb/errors"
)

// CachedShopReadStore shields shop lookups with the mutex-rebuild cache:
// shops are read-heavy but not pre-warmed, so an expired key is rebuilt by
// exactly one caller while the rest retry.
type CachedShopReadStore struct {
	inner  *ShopReadStore
	cache  *cache.Client
	prefix string
	ttl    time.Duration
}

func NewCachedShopReadStore(inner *ShopReadStore, c *cache.Client, cfg config.CacheConfig) *CachedShopReadStore {
	return &CachedShopReadStore{
		inner:  inner,
		cache:  c,
		prefix: cfg.ShopPrefix,
		ttl:    cfg.ShopTTL,
	}
}

func (r *CachedShopReadStore) FindByID(ctx context.Context, id int64) (*queries.ShopView, error) {
	view, err := cache.GetWithMutexRebuild(ctx, r.cache, r.key(id), r.ttl, func(ctx context.Context) (*queries.ShopView, error) {
		v, err := r.inner.FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil // absent; cached as an empty marker
			}
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, infra.WrapRepoErr("shop not found", err, infra.KindNotFound)
		}
		return nil, err
	}
	return view, nil
}

// Evict drops the cached entry after a committed write.
func (r *CachedShopReadStore) Evict(ctx context.Context, id int64) error {
	return r.cache.Delete(ctx, r.key(id))
}

func (r *CachedShopReadStore) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}
