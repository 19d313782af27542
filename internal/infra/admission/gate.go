// Package admission decides, in one atomic Redis script, whether a purchase
// request enters the pipeline: stock check, one-order-per-user dedup, and
// the enqueue of the order message all happen in the same atomic unit, so
// concurrent callers can never observe a torn intermediate state. The
// persistent store is never touched on this path.
package admission

import (
	"context"
	"strconv"

	"flashsale/internal/pkg/config"
	"flashsale/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

type Result int

const (
	ResultAdmitted Result = iota
	ResultSoldOut
	ResultDuplicate
)

// A missing stock counter reads as zero, so an un-prewarmed voucher is
// simply sold out rather than an error.
var admitScript = redis.NewScript(`
if tonumber(redis.call('get', KEYS[1]) or '0') <= 0 then
	return 1
end
if redis.call('sismember', KEYS[2], ARGV[1]) == 1 then
	return 2
end
redis.call('incrby', KEYS[1], -1)
redis.call('sadd', KEYS[2], ARGV[1])
redis.call('xadd', KEYS[3], '*', 'userId', ARGV[1], 'voucherId', ARGV[2], 'orderId', ARGV[3])
return 0
`)

type Gate struct {
	rdb *redis.Client
	cfg config.SeckillConfig
}

func NewGate(rdb *redis.Client, cfg config.SeckillConfig) *Gate {
	return &Gate{rdb: rdb, cfg: cfg}
}

// Attempt runs the admission script. The order id is pre-generated by the
// caller so the queue message is fully formed inside the script.
func (g *Gate) Attempt(ctx context.Context, voucherID, userID, orderID int64) (Result, error) {
	keys := []string{
		g.stockKey(voucherID),
		g.dedupKey(voucherID),
		g.cfg.Stream,
	}
	args := []any{
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(voucherID, 10),
		strconv.FormatInt(orderID, 10),
	}

	status, err := admitScript.Run(ctx, g.rdb, keys, args...).Int64()
	if err != nil {
		return 0, errs.Wrap(err, "failed to run admission script")
	}

	switch status {
	case 0:
		return ResultAdmitted, nil
	case 1:
		return ResultSoldOut, nil
	case 2:
		return ResultDuplicate, nil
	default:
		return 0, errs.New("unexpected admission script result")
	}
}

// PrewarmStock publishes the live counter at voucher publication. The
// counter is only ever mutated afterwards by the admission script.
func (g *Gate) PrewarmStock(ctx context.Context, voucherID int64, stock int32) error {
	if err := g.rdb.Set(ctx, g.stockKey(voucherID), int64(stock), 0).Err(); err != nil {
		return errs.Wrap(err, "failed to prewarm stock counter")
	}
	return nil
}

func (g *Gate) stockKey(voucherID int64) string {
	return g.cfg.StockPrefix + strconv.FormatInt(voucherID, 10)
}

func (g *Gate) dedupKey(voucherID int64) string {
	return g.cfg.DedupPrefix + strconv.FormatInt(voucherID, 10)
}
