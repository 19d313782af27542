package bootstrap

import (
	"context"
	"log/slog"

	"flashsale/internal/infra/stream"
	"flashsale/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewFulfillment,
	),
	fx.Invoke(StartFulfillment),
)

// StartFulfillment creates the consumer group and runs the fulfillment loop
// for the whole application lifetime.
func StartFulfillment(lc fx.Lifecycle, f *worker.Fulfillment, queue *stream.Queue, logger *slog.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := queue.EnsureGroup(ctx); err != nil {
				cancel()
				return err
			}
			go func() {
				defer close(done)
				f.Run(runCtx)
			}()
			logger.Info("fulfillment worker started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	})
}
