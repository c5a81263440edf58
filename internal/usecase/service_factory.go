package usecase

import (
	"smart-locator/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateLocatorService() adapters.LocatorService {
	return NewLocatorService(LocatorServiceParams{
		Logger:  f.deps.Logger,
		Engine:  f.deps.Engine,
		Browser: f.deps.Browser,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
