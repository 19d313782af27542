package components

import (
	"flashsale/internal/pkg/clock"
	"flashsale/internal/usecase/commands"
	"flashsale/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewVoucherQueries,
		queries.NewOrderQueries,
		queries.NewShopQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSeckillCommands,
		commands.NewVoucherCommands,
		commands.NewShopCommands,
	),
)
