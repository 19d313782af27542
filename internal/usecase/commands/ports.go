package commands

import (
	"context"

	"flashsale/internal/domain/shop"
	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra/admission"
	"flashsale/internal/infra/db"
	"flashsale/internal/usecase/queries"
)

// Consumer-side ports; implementations live under internal/infra.

type VoucherRepository interface {
	// Create inserts the voucher and its stock row, returning the new id.
	Create(ctx context.Context, tx db.DBTX, v *voucher.Voucher) (int64, error)
}

type ShopRepository interface {
	Update(ctx context.Context, tx db.DBTX, s *shop.Shop) error
}

// AdmissionGate is the atomic check-and-reserve against shared counters.
type AdmissionGate interface {
	Attempt(ctx context.Context, voucherID, userID, orderID int64) (admission.Result, error)
	PrewarmStock(ctx context.Context, voucherID int64, stock int32) error
}

type IDGenerator interface {
	NextID(ctx context.Context, namespace string) (int64, error)
}

// VoucherCacheWarmer pre-warms the logical-expiry entry for a voucher so
// the admission read path never reaches the persistent store.
type VoucherCacheWarmer interface {
	Warm(ctx context.Context, view *queries.VoucherView) error
}

// ShopCacheEvicter drops the cached entry after a committed update.
type ShopCacheEvicter interface {
	Evict(ctx context.Context, id int64) error
}
