package ports

import (
	"context"

	"smart-locator/internal/entity"
)

// SnapshotProvider supplies element snapshots from a live page and counts
// live matches for a selector. CountLiveMatches returns browser.NotCountable
// for templates and host API expressions instead of failing.
type SnapshotProvider interface {
	CaptureSnapshot(ctx context.Context, selector string) (*entity.ElementMetadata, error)
	CountLiveMatches(ctx context.Context, selector string) (int, error)
}

type BrowserSession interface {
	SnapshotProvider

	Launch(ctx context.Context, browserType entity.BrowserType) error
	Close(ctx context.Context) error
	OpenURL(ctx context.Context, url string, browserType entity.BrowserType) error
	CaptureAtPoint(ctx context.Context, x, y float64) (*entity.ElementMetadata, error)
	CaptureSelected(ctx context.Context) (*entity.ElementMetadata, error)
	HasSelection(ctx context.Context) (bool, error)
	EnsureScriptActive(ctx context.Context) error
	Screenshot(ctx context.Context, path string) error
	Status() entity.SessionStatus
	IsReady() bool
}

type LocatorEngine interface {
	Generate(m entity.ElementMetadata) []entity.LocatorCandidate
	ScoreAndSelectBest(candidates []entity.LocatorCandidate, m entity.ElementMetadata) (*entity.LocatorResult, error)
}
