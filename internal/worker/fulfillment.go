// Package worker contains the order fulfillment consumer: a long-lived
// background task that drains the durable order queue and materializes
// admitted orders in the persistent store. It is decoupled from request
// handling; its failures never reach the caller who already holds a
// provisional order id.
package worker

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"flashsale/internal/infra/redlock"
	"flashsale/internal/infra/stream"
	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"

	"github.com/cockroachdb/errors"
)

var errLockUnavailable = errs.New("user order lock unavailable")

type CommitOutcome int

const (
	// OutcomeCommitted: stock decremented and the order row inserted.
	OutcomeCommitted CommitOutcome = iota
	// OutcomeAlreadyExists: a committed order for (user, voucher) was
	// already present; the message is treated as handled.
	OutcomeAlreadyExists
	// OutcomeOutOfStock: the guarded decrement found no stock left. The
	// admission counter should prevent this; it is logged and dropped.
	OutcomeOutOfStock
)

// OrderStore commits one admitted order inside a single transaction:
// re-check for an existing order, conditional stock decrement, insert.
type OrderStore interface {
	CommitOrder(ctx context.Context, m stream.Message) (CommitOutcome, error)
}

type OrderQueue interface {
	ReadNew(ctx context.Context, consumer string, block time.Duration) (*stream.Message, error)
	ReadPending(ctx context.Context, consumer string) (*stream.Message, error)
	Ack(ctx context.Context, streamID string) error
}

type Locker interface {
	NewLock(scope string) *redlock.Lock
}

type Fulfillment struct {
	queue  OrderQueue
	store  OrderStore
	locks  Locker
	cfg    config.SeckillConfig
	logger *slog.Logger
}

func NewFulfillment(queue OrderQueue, store OrderStore, locks Locker, cfg config.SeckillConfig, logger *slog.Logger) *Fulfillment {
	return &Fulfillment{
		queue:  queue,
		store:  store,
		locks:  locks,
		cfg:    cfg,
		logger: logger,
	}
}

// Run loops until the context is cancelled. Errors are absorbed here: any
// failure triggers a pending-list recovery sweep instead of terminating
// the task, so messages orphaned by a crash mid-processing are replayed.
func (f *Fulfillment) Run(ctx context.Context) {
	// Recover whatever a previous incarnation left unacknowledged.
	f.recoverPending(ctx)

	for {
		if ctx.Err() != nil {
			f.logger.Info("fulfillment worker stopping")
			return
		}

		msg, err := f.queue.ReadNew(ctx, f.cfg.Consumer, f.cfg.ReadBlock)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if f.dropMalformed(ctx, msg, err) {
				continue
			}
			f.logger.Error("failed to read order message", "error", err)
			f.recoverPending(ctx)
			continue
		}
		if msg == nil {
			continue // block timeout, nothing assigned
		}

		if err := f.process(ctx, msg); err != nil {
			f.logger.Error("failed to process order message", "stream_id", msg.StreamID, "error", err)
			f.recoverPending(ctx)
			continue
		}

		if err := f.queue.Ack(ctx, msg.StreamID); err != nil {
			f.logger.Error("failed to ack order message", "stream_id", msg.StreamID, "error", err)
			f.recoverPending(ctx)
		}
	}
}

// recoverPending re-reads this consumer's pending set from the start,
// processing and acknowledging one message per iteration until it is
// empty. A processing failure abandons the sweep; the message stays
// pending and a future sweep retries it.
func (f *Fulfillment) recoverPending(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := f.queue.ReadPending(ctx, f.cfg.Consumer)
		if err != nil {
			if f.dropMalformed(ctx, msg, err) {
				continue
			}
			f.logger.Error("failed to read pending message", "error", err)
			f.sleep(ctx)
			continue
		}
		if msg == nil {
			return // pending set drained
		}

		if err := f.process(ctx, msg); err != nil {
			f.logger.Error("failed to process pending message", "stream_id", msg.StreamID, "error", err)
			f.sleep(ctx)
			return
		}

		if err := f.queue.Ack(ctx, msg.StreamID); err != nil {
			f.logger.Error("failed to ack pending message", "stream_id", msg.StreamID, "error", err)
			f.sleep(ctx)
			return
		}
	}
}

// process commits one order under the per-user lock: one in-flight order
// commit per user, system-wide. Lock failure leaves the message pending.
func (f *Fulfillment) process(ctx context.Context, msg *stream.Message) error {
	lock := f.locks.NewLock("order:" + strconv.FormatInt(msg.UserID, 10))

	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to acquire user order lock")
	}
	if !acquired {
		return errLockUnavailable
	}
	defer func() {
		if _, releaseErr := lock.Release(ctx); releaseErr != nil {
			f.logger.Warn("failed to release user order lock", "key", lock.Key(), "error", releaseErr)
		}
	}()

	outcome, err := f.store.CommitOrder(ctx, *msg)
	if err != nil {
		return err
	}

	switch outcome {
	case OutcomeCommitted:
		f.logger.Info("order committed", "order_id", msg.OrderID, "user_id", msg.UserID, "voucher_id", msg.VoucherID)
	case OutcomeAlreadyExists:
		f.logger.Info("order already committed, skipping", "order_id", msg.OrderID, "user_id", msg.UserID)
	case OutcomeOutOfStock:
		// Admission counter and persisted stock disagree; dropped after logging.
		f.logger.Warn("persisted stock exhausted for admitted order", "order_id", msg.OrderID, "voucher_id", msg.VoucherID)
	}
	return nil
}

// dropMalformed acknowledges undecodable payloads so they cannot wedge
// every future recovery sweep.
func (f *Fulfillment) dropMalformed(ctx context.Context, msg *stream.Message, err error) bool {
	if msg == nil || !errors.Is(err, stream.ErrMalformedMessage) {
		return false
	}
	f.logger.Error("dropping malformed order message", "stream_id", msg.StreamID, "error", err)
	if ackErr := f.queue.Ack(ctx, msg.StreamID); ackErr != nil {
		f.logger.Error("failed to ack malformed message", "stream_id", msg.StreamID, "error", ackErr)
		return false
	}
	return true
}

func (f *Fulfillment) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(f.cfg.RecoverySleep):
	}
}
