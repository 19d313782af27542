package commands

import (
	"context"

	"flashsale/internal/infra"
	"flashsale/internal/infra/admission"
	"flashsale/internal/infra/cache"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/errs"
	"flashsale/internal/usecase/queries"

	"github.com/cockroachdb/errors"
)

var (
	ErrVoucherNotFound   = errs.New("voucher not found")
	ErrSaleNotStarted    = errs.New("sale has not started")
	ErrSaleEnded         = errs.New("sale has ended")
	ErrInsufficientStock = errs.New("insufficient stock")
	ErrAlreadyPurchased  = errs.New("already purchased")
	ErrAdmissionFailed   = errs.New("admission failed")
)

const orderNamespace = "order"

type SeckillCommands interface {
	// AttemptAdmission races the caller against the shared stock counter.
	// On success the returned order id is provisional: the order becomes
	// queryable only after the fulfillment worker commits it.
	AttemptAdmission(ctx context.Context, voucherID, userID int64) (int64, error)
}

type seckillUseCaseImpl struct {
	vouchers queries.VoucherQueries
	idgen    IDGenerator
	gate     AdmissionGate
	clock    clock.Clock
}

func NewSeckillCommands(
	vouchers queries.VoucherQueries,
	idgen IDGenerator,
	gate AdmissionGate,
	clk clock.Clock,
) SeckillCommands {
	return &seckillUseCaseImpl{
		vouchers: vouchers,
		idgen:    idgen,
		gate:     gate,
		clock:    clk,
	}
}

func (s *seckillUseCaseImpl) AttemptAdmission(ctx context.Context, voucherID, userID int64) (int64, error) {
	view, err := s.vouchers.GetByID(ctx, voucherID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || errors.Is(err, cache.ErrCacheMiss) {
			return 0, ErrVoucherNotFound
		}
		return 0, errs.Mark(err, ErrAdmissionFailed)
	}

	now := s.clock.Now()
	if now.Before(view.BeginTime) {
		return 0, ErrSaleNotStarted
	}
	if now.After(view.EndTime) {
		return 0, ErrSaleEnded
	}

	// Pre-generated so the queue message is fully formed inside the
	// admission script; on rejection the id is simply discarded.
	orderID, err := s.idgen.NextID(ctx, orderNamespace)
	if err != nil {
		return 0, errs.Mark(err, ErrAdmissionFailed)
	}

	result, err := s.gate.Attempt(ctx, voucherID, userID, orderID)
	if err != nil {
		return 0, errs.Mark(err, ErrAdmissionFailed)
	}

	switch result {
	case admission.ResultAdmitted:
		return orderID, nil
	case admission.ResultSoldOut:
		return 0, ErrInsufficientStock
	case admission.ResultDuplicate:
		return 0, ErrAlreadyPurchased
	default:
		return 0, ErrAdmissionFailed
	}
}
