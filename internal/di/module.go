package di

import (
	"github.com/campuseats/canteen/internal/adapter/mailer"
	"github.com/campuseats/canteen/internal/app"
	"github.com/campuseats/canteen/internal/config"
	"github.com/campuseats/canteen/internal/logger"
	"github.com/campuseats/canteen/internal/pkg/auth"
	"github.com/campuseats/canteen/internal/server/http/handlers"
	"github.com/campuseats/canteen/internal/server/http/router"
	"github.com/campuseats/canteen/internal/storage/postgres"
	"github.com/campuseats/canteen/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(func(sender mailer.Sender) app.StatusSender { return sender }),
		fx.Provide(func(facade *app.CanteenFacade) handlers.CanteenFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
