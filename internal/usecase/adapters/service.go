package adapters

import (
	"context"

	"smart-locator/internal/entity"
)

type BrowserService interface {
	OpenURL(ctx context.Context, url string, browserType entity.BrowserType) error
	Close(ctx context.Context) error
	Screenshot(ctx context.Context, path string) error
	Status() entity.SessionStatus
	IsReady() bool
}

type LocatorService interface {
	Generate(ctx context.Context, m entity.ElementMetadata) (*entity.LocatorResult, error)
	CaptureAndGenerate(ctx context.Context, selector string) (*entity.LocatorResult, error)
	CaptureAtPointAndGenerate(ctx context.Context, x, y float64) (*entity.LocatorResult, error)
	PollSelected(ctx context.Context) (*entity.LocatorResult, error)
	CountMatches(ctx context.Context, locator string) (*entity.CountResult, error)
}
