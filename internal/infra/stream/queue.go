// Package stream wraps the durable order queue: a Redis stream with one
// consumer group. Delivery is at-least-once; a message leaves the group's
// pending set only on acknowledgment, and unacknowledged entries remain
// retrievable by re-reading the group from offset 0.
package stream

import (
	"context"
	"strconv"
	"strings"
	"time"

	"flashsale/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// ErrMalformedMessage marks a payload that cannot be decoded. The returned
// Message still carries the stream id so the caller can decide to drop it.
var ErrMalformedMessage = errs.New("malformed queue message")

type Message struct {
	StreamID  string
	OrderID   int64
	VoucherID int64
	UserID    int64
}

type Queue struct {
	rdb    *redis.Client
	stream string
	group  string
}

func NewQueue(rdb *redis.Client, stream, group string) *Queue {
	return &Queue{rdb: rdb, stream: stream, group: group}
}

// EnsureGroup creates the stream and group idempotently. Starting at 0 so
// messages enqueued before the first worker boot are not skipped.
func (q *Queue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return errs.Wrap(err, "failed to create consumer group")
	}
	return nil
}

// Enqueue appends a message. The production hot path enqueues inside the
// admission script instead; this is for tooling and recovery.
func (q *Queue) Enqueue(ctx context.Context, m Message) (string, error) {
	id, err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"userId":    strconv.FormatInt(m.UserID, 10),
			"voucherId": strconv.FormatInt(m.VoucherID, 10),
			"orderId":   strconv.FormatInt(m.OrderID, 10),
		},
	}).Result()
	if err != nil {
		return "", errs.Wrap(err, "failed to enqueue message")
	}
	return id, nil
}

// ReadNew blocks cooperatively up to block for one message newly assigned
// to the group. Returns (nil, nil) on timeout.
func (q *Queue) ReadNew(ctx context.Context, consumer string, block time.Duration) (*Message, error) {
	return q.readOne(ctx, consumer, ">", block)
}

// ReadPending re-reads this consumer's pending set from the start; used by
// the recovery sweep after a crash mid-processing. Returns (nil, nil) when
// the pending set is empty.
func (q *Queue) ReadPending(ctx context.Context, consumer string) (*Message, error) {
	return q.readOne(ctx, consumer, "0", 0)
}

func (q *Queue) Ack(ctx context.Context, streamID string) error {
	if err := q.rdb.XAck(ctx, q.stream, q.group, streamID).Err(); err != nil {
		return errs.Wrap(err, "failed to ack message")
	}
	return nil
}

func (q *Queue) readOne(ctx context.Context, consumer, offset string, block time.Duration) (*Message, error) {
	args := &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: consumer,
		Streams:  []string{q.stream, offset},
		Count:    1,
	}
	if block > 0 {
		args.Block = block
	} else {
		args.Block = -1 // go-redis treats 0 as "block forever"
	}

	streams, err := q.rdb.XReadGroup(ctx, args).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to read from stream")
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	raw := streams[0].Messages[0]
	msg, err := decode(raw)
	if err != nil {
		return &Message{StreamID: raw.ID}, err
	}
	return msg, nil
}

func decode(raw redis.XMessage) (*Message, error) {
	userID, err := fieldInt64(raw.Values, "userId")
	if err != nil {
		return nil, err
	}
	voucherID, err := fieldInt64(raw.Values, "voucherId")
	if err != nil {
		return nil, err
	}
	orderID, err := fieldInt64(raw.Values, "orderId")
	if err != nil {
		return nil, err
	}

	return &Message{
		StreamID:  raw.ID,
		OrderID:   orderID,
		VoucherID: voucherID,
		UserID:    userID,
	}, nil
}

func fieldInt64(values map[string]any, field string) (int64, error) {
	v, ok := values[field]
	if !ok {
		return 0, errs.Mark(errs.New("missing field "+field), ErrMalformedMessage)
	}
	s, ok := v.(string)
	if !ok {
		return 0, errs.Mark(errs.New("non-string field "+field), ErrMalformedMessage)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.Mark(err, ErrMalformedMessage)
	}
	return n, nil
}
