package components

import (
	"context"

	"flashsale/internal/infra/admission"
	"flashsale/internal/infra/cache"
	"flashsale/internal/infra/idgen"
	"flashsale/internal/infra/redlock"
	"flashsale/internal/infra/stream"
	"flashsale/internal/pkg/clock"
	"flashsale/internal/pkg/config"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// RedisInfraModule wires the Redis-backed primitives: distributed locks,
// the id generator, the cache shield, the admission gate and the durable
// order queue.
var RedisInfraModule = fx.Module("redisinfra",
	fx.Provide(
		NewLockFactory,
		NewIDGenerator,
		NewCacheClient,
		NewAdmissionGate,
		NewOrderQueue,
		fx.Annotate(
			func(f *redlock.Factory) *redlock.Factory { return f },
			fx.As(new(worker.Locker)),
		),
		fx.Annotate(
			func(g *idgen.Generator) *idgen.Generator { return g },
			fx.As(new(commands.IDGenerator)),
		),
		fx.Annotate(
			func(g *admission.Gate) *admission.Gate { return g },
			fx.As(new(commands.AdmissionGate)),
		),
		fx.Annotate(
			func(q *stream.Queue) *stream.Queue { return q },
			fx.As(new(worker.OrderQueue)),
		),
	),
)

func NewLockFactory(rdb *redis.Client, cfg config.Config) *redlock.Factory {
	return redlock.NewFactory(rdb, cfg.Lock.Prefix, cfg.Lock.Lease)
}

func NewIDGenerator(rdb *redis.Client, clk clock.Clock, cfg config.Config) *idgen.Generator {
	return idgen.New(rdb, clk, cfg.IDGen.Epoch, cfg.IDGen.SeqBits)
}

func NewCacheClient(lc fx.Lifecycle, rdb *redis.Client, clk clock.Clock, locks *redlock.Factory, cfg config.Config) *cache.Client {
	client := cache.NewClient(rdb, clk, locks, cfg.Cache)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}

func NewAdmissionGate(rdb *redis.Client, cfg config.Config) *admission.Gate {
	return admission.NewGate(rdb, cfg.Seckill)
}

func NewOrderQueue(rdb *redis.Client, cfg config.Config) *stream.Queue {
	return stream.NewQueue(rdb, cfg.Seckill.Stream, cfg.Seckill.Group)
}
