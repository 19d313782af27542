package components

import (
	"flashsale/internal/infra/readstore"
	repo_impl "flashsale/internal/infra/repository"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"
	"flashsale/internal/worker"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewVoucherRepository,
			fx.As(new(commands.VoucherRepository)),
		),
		fx.Annotate(
			repo_impl.NewShopRepository,
			fx.As(new(commands.ShopRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(worker.OrderStore)),
		),
		// Uncached readstores run only as loaders behind the cache shield.
		readstore.NewShopReadStore,
		readstore.NewVoucherReadStore,
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewCachedShopReadStore,
			fx.As(new(queries.ShopReadModel)),
			fx.As(new(commands.ShopCacheEvicter)),
		),
		fx.Annotate(
			readstore.NewCachedVoucherReadStore,
			fx.As(new(queries.VoucherReadModel)),
			fx.As(new(commands.VoucherCacheWarmer)),
		),
	),
)
