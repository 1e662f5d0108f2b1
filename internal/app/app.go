package app

import (
	"time"

	"go.uber.org/fx"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/app/appcontext"
	"potionportal.dev/backend/internal/controller"
	"potionportal.dev/backend/internal/infra"
	"potionportal.dev/backend/internal/pkg/logger"
	"potionportal.dev/backend/internal/server"
	"potionportal.dev/backend/internal/service"
	"potionportal.dev/backend/internal/workers/playbackwkr"
	"potionportal.dev/backend/internal/workers/refreshwkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Servers
		server.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(infra.SentryInit),

		// Controllers
		controller.Module(),

		// fx Extra Options
		fx.StartTimeout(5 * time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(conf.HTTPServerShutdownTimeout),
	}

	// Workers only run in the server; CLI commands drive services directly.
	if ctx.Env == appcontext.EnvServer {
		baseOpts = append(baseOpts,
			fx.Invoke(refreshwkr.Start),
			fx.Invoke(playbackwkr.Start),
		)
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
