package commands

import (
	"context"
	"log/slog"
	"time"

	"flashsale/internal/domain/voucher"
	"flashsale/internal/infra/db"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type PublishVoucherParams struct {
	Title        string
	PayValue     int64
	InitialStock int32
	BeginTime    time.Time
	EndTime      time.Time
}

type VoucherCommands interface {
	// PublishVoucher persists the voucher, pre-warms the Redis stock
	// counter and the logical-expiry cache entry the admission path reads.
	PublishVoucher(ctx context.Context, p PublishVoucherParams) (*queries.VoucherView, error)
}

type voucherUseCaseImpl struct {
	repo   VoucherRepository
	gate   AdmissionGate
	warmer VoucherCacheWarmer
	pool   *pgxpool.Pool
}

func NewVoucherCommands(
	repo VoucherRepository,
	gate AdmissionGate,
	warmer VoucherCacheWarmer,
	pool *pgxpool.Pool,
) VoucherCommands {
	return &voucherUseCaseImpl{
		repo:   repo,
		gate:   gate,
		warmer: warmer,
		pool:   pool,
	}
}

func (u *voucherUseCaseImpl) PublishVoucher(ctx context.Context, p PublishVoucherParams) (*queries.VoucherView, error) {
	entity, err := voucher.NewVoucher(0, p.Title, p.PayValue, p.InitialStock, p.BeginTime, p.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	id, err := db.RunInTxWithRetry(ctx, u.pool, 3, func(tx db.DBTX) (int64, error) {
		return u.repo.Create(ctx, tx, entity)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view := &queries.VoucherView{
		ID:        id,
		Title:     p.Title,
		PayValue:  p.PayValue,
		Stock:     p.InitialStock,
		BeginTime: p.BeginTime,
		EndTime:   p.EndTime,
	}

	// Prewarm failures leave the voucher purchasable later but never
	// oversold: a missing counter reads as sold out at admission.
	if err := u.gate.PrewarmStock(ctx, id, p.InitialStock); err != nil {
		slog.Warn("failed to prewarm stock counter", "voucher_id", id, "error", err)
	}
	if err := u.warmer.Warm(ctx, view); err != nil {
		slog.Warn("failed to prewarm voucher cache", "voucher_id", id, "error", err)
	}

	return view, nil
}
