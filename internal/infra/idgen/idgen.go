// Package idgen issues composite int64 ids: seconds since a fixed epoch in
// the high bits, a per-namespace per-day sequence in the low bits. All
// instances share the same Redis counter, so ids are unique and strictly
// increasing in call order for a namespace within one day (while the daily
// sequence stays below 2^seqBits).
package idgen

import (
	"context"

	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const counterPrefix = "icr:"

type Generator struct {
	client  *redis.Client
	clock   clock.Clock
	epoch   int64
	seqBits uint
}

func New(client *redis.Client, clk clock.Clock, epoch int64, seqBits uint) *Generator {
	return &Generator{client: client, clock: clk, epoch: epoch, seqBits: seqBits}
}

// NextID returns the next id for the namespace. The date in the counter key
// comes from the same clock reading as the timestamp, so a call straddling
// midnight stays internally consistent; the key change at rollover is what
// resets the sequence.
func (g *Generator) NextID(ctx context.Context, namespace string) (int64, error) {
	now := g.clock.Now().UTC()
	timestamp := now.Unix() - g.epoch

	key := counterPrefix + namespace + ":" + now.Format("2006:01:02")
	seq, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, errs.Wrap(err, "failed to increment id sequence")
	}

	return timestamp<<g.seqBits | seq, nil
}
