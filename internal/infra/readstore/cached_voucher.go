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

// CachedVoucherReadStore serves the admission-path voucher lookups. Published
// vouchers are pre-warmed with a logical-expiry entry, so the hot read never
// blocks on the persistent store; an un-warmed key (published before the
// counter existed, or after a cache flush) falls back to the guarded
// read-through path.
type CachedVoucherReadStore struct {
	inner      *VoucherReadStore
	cache      *cache.Client
	prefix     string
	logicalTTL time.Duration
	guardTTL   time.Duration
}

func NewCachedVoucherReadStore(inner *VoucherReadStore, c *cache.Client, cfg config.CacheConfig) *CachedVoucherReadStore {
	return &CachedVoucherReadStore{
		inner:      inner,
		cache:      c,
		prefix:     cfg.VoucherPrefix,
		logicalTTL: cfg.LogicalTTL,
		guardTTL:   cfg.VoucherTTL,
	}
}

func (r *CachedVoucherReadStore) FindByID(ctx context.Context, id int64) (*queries.VoucherView, error) {
	load := func(ctx context.Context) (*queries.VoucherView, error) {
		v, err := r.inner.FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return v, nil
	}

	view, err := cache.GetWithLogicalExpire(ctx, r.cache, r.key(id), r.logicalTTL, load)
	if err == nil {
		return view, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	view, err = cache.GetWithPenetrationGuard(ctx, r.cache, r.key(id), r.guardTTL, load)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, err
	}
	return view, nil
}

// Warm writes the logical-expiry entry at publication time.
func (r *CachedVoucherReadStore) Warm(ctx context.Context, view *queries.VoucherView) error {
	return cache.SetWithLogicalExpire(ctx, r.cache, r.key(view.ID), view, r.logicalTTL)
}

func (r *CachedVoucherReadStore) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}
