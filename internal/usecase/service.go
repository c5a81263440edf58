package usecase

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"smart-locator/internal/ports"
	"smart-locator/internal/usecase/adapters"
)

type Service struct {
	Locator adapters.LocatorService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Engine  ports.LocatorEngine
	Browser ports.BrowserSession
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Locator: factory.CreateLocatorService(),
		Browser: factory.CreateBrowserService(),
	}
}
