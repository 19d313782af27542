package components

import (
	"flashsale/internal/handler"
	"flashsale/internal/handler/api"
	"flashsale/internal/handler/middleware"
	"flashsale/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewVoucherHandler,
		api.NewOrderHandler,
		api.NewShopHandler,
		fx.Annotate(
			func(s *jwt.Service) *jwt.Service { return s },
			fx.As(new(middleware.TokenValidator)),
		),
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
