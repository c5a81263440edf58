package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"smart-locator/internal/entity"
	"smart-locator/internal/locator"
	"smart-locator/internal/ports"
	"smart-locator/pkg/apperr"
	"smart-locator/pkg/logg"
	"smart-locator/pkg/tracing"
)

const (
	locatorServiceName = "LocatorService"
	locatorTracer      = "usecase.locator"
)

// LocatorService runs capture, generation and scoring for one element per
// call. It keeps no per-request state.
type LocatorService struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	engine  ports.LocatorEngine
	browser ports.BrowserSession
}

type LocatorServiceParams struct {
	fx.In

	Logger  *zap.Logger
	Engine  ports.LocatorEngine
	Browser ports.BrowserSession
}

func NewLocatorService(params LocatorServiceParams) *LocatorService {
	return &LocatorService{
		logger:  params.Logger.With(zap.String(logg.Layer, locatorServiceName)),
		tracer:  otel.Tracer(locatorTracer),
		engine:  params.Engine,
		browser: params.Browser,
	}
}

// Generate produces the scored result for an already captured snapshot.
func (s *LocatorService) Generate(ctx context.Context, m entity.ElementMetadata) (res *entity.LocatorResult, err error) {
	const op = "Generate"
	requestID := uuid.NewString()
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.RequestID, requestID),
		zap.String(logg.Tag, m.TagName),
	)

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("request_id", requestID),
		attribute.String("tag", m.TagName),
	)
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(m.TagName) == "" {
		return nil, apperr.InvalidReqError(op, "tagName", errors.New("tag name cannot be empty"))
	}

	candidates := s.engine.Generate(m)
	step.AddEvent("candidates generated", attribute.Int("count", len(candidates)))

	res, err = s.engine.ScoreAndSelectBest(candidates, m)
	if err != nil {
		return nil, err
	}

	logger.Info("Locator selected",
		zap.Int(logg.Candidates, len(candidates)),
		zap.String(logg.Locator, res.BestLocator),
		zap.Float64(logg.Score, res.Score),
	)

	return res, nil
}

func (s *LocatorService) CaptureAndGenerate(ctx context.Context, selector string) (res *entity.LocatorResult, err error) {
	const op = "CaptureAndGenerate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(selector) == "" {
		return nil, apperr.InvalidReqError(op, "selector", errors.New("selector cannot be empty"))
	}

	meta, err := s.browser.CaptureSnapshot(ctx, selector)
	if err != nil {
		return nil, err
	}

	return s.Generate(ctx, *meta)
}

func (s *LocatorService) CaptureAtPointAndGenerate(ctx context.Context, x, y float64) (res *entity.LocatorResult, err error) {
	const op = "CaptureAtPointAndGenerate"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.Float64("x", x),
		attribute.Float64("y", y),
	)
	defer func() {
		step.End(err)
	}()

	if x < 0 || y < 0 {
		return nil, apperr.InvalidReqError(op, "point", fmt.Errorf("coordinates must be non-negative, got %v,%v", x, y))
	}

	meta, err := s.browser.CaptureAtPoint(ctx, x, y)
	if err != nil {
		return nil, err
	}

	return s.Generate(ctx, *meta)
}

// PollSelected generates locators for the element picked in the page, if
// any. It returns nil, nil when nothing has been selected since the last
// poll.
func (s *LocatorService) PollSelected(ctx context.Context) (res *entity.LocatorResult, err error) {
	const op = "PollSelected"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if err := s.browser.EnsureScriptActive(ctx); err != nil {
		logger.Warn("Capture script not active", zap.Error(err))
	}

	meta, err := s.browser.CaptureSelected(ctx)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		logger.Debug("No element selected")

		return nil, nil
	}

	return s.Generate(ctx, *meta)
}

// CountMatches counts live matches of loc. An XPath matching more than one
// node gets a "(loc)[1]" suggestion whose own count is reported as well.
func (s *LocatorService) CountMatches(ctx context.Context, loc string) (res *entity.CountResult, err error) {
	const op = "CountMatches"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Locator, loc))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("locator", loc))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(loc) == "" {
		return nil, apperr.InvalidReqError(op, "locator", errors.New("locator cannot be empty"))
	}

	res = &entity.CountResult{Locator: loc}

	if !locator.IsCountable(loc) {
		return res, nil
	}

	count, err := s.browser.CountLiveMatches(ctx, loc)
	if err != nil {
		return nil, err
	}

	if count < 0 {
		return res, nil
	}

	res.Count = count
	res.Countable = true

	if count > 1 && strings.HasPrefix(loc, "//") {
		res.UniqueSuggestion = "(" + loc + ")[1]"

		res.UniqueCount, err = s.browser.CountLiveMatches(ctx, res.UniqueSuggestion)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Live matches counted",
		zap.Int(logg.Count, res.Count),
		zap.String("unique_suggestion", res.UniqueSuggestion),
	)

	return res, nil
}
