package bootstrap

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"smart-locator/internal/browser"
	"smart-locator/internal/config"
	"smart-locator/internal/console"
	"smart-locator/internal/locator"
	"smart-locator/internal/ports"
	"smart-locator/internal/usecase"
)

// NewApp wires the interactive console: config, logging, tracing, the
// playwright session and the locator engine.
func NewApp() *fx.App {
	return fx.New(
		options(),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)
}

func options() fx.Option {
	return fx.Options(
		fx.Provide(
			config.GetConfig,
			NewLogger,
			newTraceProvider,

			fx.Annotate(browser.NewManager, fx.As(new(ports.BrowserSession))),
			fx.Annotate(locator.NewEngine, fx.As(new(ports.LocatorEngine))),

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(10*time.Second),
		fx.StopTimeout(15*time.Second),
	)
}
