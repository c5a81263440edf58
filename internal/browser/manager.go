package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"smart-locator/internal/config"
	"smart-locator/internal/entity"
	"smart-locator/internal/locator"
	"smart-locator/pkg/apperr"
	"smart-locator/pkg/logg"
	"smart-locator/pkg/tracing"
)

const (
	browserManagerName = "BrowserManager"
	browserTracer      = "browser.manager"
)

// NotCountable is what CountLiveMatches returns for locator templates and
// host API expressions.
const NotCountable = -1

var (
	ErrElementNotFound = errors.New("element not found")
	ErrNoActivePage    = errors.New("no page is open")
)

// Manager is the playwright-backed snapshot provider. It owns one browser,
// one context and one page at a time.
type Manager struct {
	config         *config.Config
	logger         *zap.Logger
	tracer         trace.Tracer
	playwright     *playwright.Playwright
	browser        playwright.Browser
	browserContext playwright.BrowserContext
	page           playwright.Page
	session        *entity.Session
	ready          bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, browserManagerName)),
		tracer: otel.Tracer(browserTracer),
		ready:  false,
	}
}

func (m *Manager) Launch(ctx context.Context, browserType entity.BrowserType) (err error) {
	const op = "Launch"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.BrowserType, string(browserType)))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("browser_type", string(browserType)))
	defer func() {
		step.End(err)
	}()

	if browserType == "" {
		browserType = entity.BrowserType(m.config.BrowserConfig.Type)
	}

	logger.Info("Launching browser...")

	if m.playwright == nil {
		if m.config.BrowserConfig.Install {
			step.AddEvent("installing playwright")

			err = playwright.Install(&playwright.RunOptions{Browsers: []string{string(browserType)}})
			if err != nil {
				return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
					apperr.MetaReason:  "playwright_install_failed",
					apperr.MetaStage:   apperr.StageBrowser,
					apperr.MetaBrowser: string(browserType),
				})
			}
		}

		step.AddEvent("starting playwright")

		pw, err := playwright.Run()
		if err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_start_failed",
				apperr.MetaStage:  apperr.StageBrowser,
			})
		}
		m.playwright = pw
	}

	launcher, err := m.browserTypeFor(browserType)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason:  "unsupported_browser_type",
			apperr.MetaBrowser: string(browserType),
		})
	}

	browser, err := launcher.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason:  "browser_launch_failed",
			apperr.MetaStage:   apperr.StageBrowser,
			apperr.MetaBrowser: string(browserType),
		})
	}
	m.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.config.BrowserConfig.ViewportWidth,
			Height: m.config.BrowserConfig.ViewportHeight,
		},
		JavaScriptEnabled: playwright.Bool(true),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.browserContext = browserContext

	script := captureModeInitScript
	if err := browserContext.AddInitScript(playwright.Script{Content: &script}); err != nil {
		logger.Warn("Failed to register capture script, relying on re-arm after load", zap.Error(err))
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.attachPage(page)

	m.session = &entity.Session{
		ID:          uuid.New(),
		BrowserType: browserType,
		StartedAt:   time.Now(),
	}
	m.ready = true

	logger.Info("Browser launched successfully", zap.String(logg.SessionID, m.session.ID.String()))

	return nil
}

func (m *Manager) browserTypeFor(browserType entity.BrowserType) (playwright.BrowserType, error) {
	switch browserType {
	case entity.BrowserChromium:
		return m.playwright.Chromium, nil
	case entity.BrowserFirefox:
		return m.playwright.Firefox, nil
	case entity.BrowserWebKit:
		return m.playwright.WebKit, nil
	}

	return nil, errors.New("unsupported browser type " + string(browserType))
}

// attachPage makes page current and re-arms the capture script after every
// load.
func (m *Manager) attachPage(page playwright.Page) {
	m.page = page

	page.OnLoad(func(p playwright.Page) {
		m.logger.Debug("Page loaded, re-arming capture script", zap.String(logg.URL, p.URL()))

		if _, err := p.Evaluate(captureModeScript); err != nil {
			m.logger.Warn("Failed to re-arm capture script", zap.Error(err))
		}
	})
}

// closeBrowser releases the page, context and browser but keeps the
// playwright driver running for a relaunch.
func (m *Manager) closeBrowser(logger *zap.Logger) {
	if m.browserContext != nil {
		if err := m.browserContext.Close(); err != nil {
			logger.Warn("Failed to close context", zap.Error(err))
		}
	}

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			logger.Warn("Failed to close browser", zap.Error(err))
		}
	}

	m.page = nil
	m.browserContext = nil
	m.browser = nil
	m.session = nil
	m.ready = false
}

func (m *Manager) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Closing browser...")

	m.closeBrowser(logger)

	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_stop_failed",
			})
		}
		m.playwright = nil
	}

	logger.Info("Browser closed")

	return nil
}

// OpenURL navigates the current page, launching the browser first when none
// is running or when browserType differs from the running one.
func (m *Manager) OpenURL(ctx context.Context, url string, browserType entity.BrowserType) (err error) {
	const op = "OpenURL"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if browserType == "" {
		browserType = entity.BrowserType(m.config.BrowserConfig.Type)
	}

	if m.ready && m.session != nil && m.session.BrowserType != browserType {
		logger.Info("Browser type changed, relaunching",
			zap.String("from", string(m.session.BrowserType)),
			zap.String("to", string(browserType)))
		m.closeBrowser(logger)
	}

	if !m.ready {
		if err := m.Launch(ctx, browserType); err != nil {
			return err
		}
	}

	if err := m.ensurePageActive(); err != nil {
		return apperr.Wrap(op, apperr.CodeBrowserNotReady, err, map[string]any{
			apperr.MetaReason: "page_not_active",
		})
	}

	step.AddEvent("navigating to URL")

	_, err = m.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(m.config.BrowserConfig.Timeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	if err := m.EnsureScriptActive(ctx); err != nil {
		logger.Warn("Capture script not active after navigation", zap.Error(err))
	}

	logger.Info("Navigated")

	return nil
}

func (m *Manager) ensurePageActive() error {
	if m.browserContext == nil {
		return ErrNoActivePage
	}

	if m.page != nil && !m.page.IsClosed() {
		return nil
	}

	m.logger.Info("Page closed, reconnecting to active page...")

	for _, p := range m.browserContext.Pages() {
		if !p.IsClosed() {
			m.attachPage(p)
			m.logger.Info("Reconnected to existing page")

			return nil
		}
	}

	return ErrNoActivePage
}

// requirePage returns a no_active_page error when no session is open.
func (m *Manager) requirePage(op string) error {
	if !m.ready {
		return apperr.Wrap(op, apperr.CodeNoActivePage, ErrNoActivePage, map[string]any{
			apperr.MetaReason: "browser_not_open",
		})
	}

	if err := m.ensurePageActive(); err != nil {
		return apperr.Wrap(op, apperr.CodeNoActivePage, err, map[string]any{
			apperr.MetaReason: "page_not_active",
		})
	}

	return nil
}

// CaptureSnapshot extracts metadata of the first element matching selector
// (CSS or XPath).
func (m *Manager) CaptureSnapshot(ctx context.Context, selector string) (meta *entity.ElementMetadata, err error) {
	const op = "CaptureSnapshot"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return nil, err
	}

	loc := m.page.Locator(playwrightSelector(selector))

	count, err := loc.Count()
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason:   "selector_query_failed",
			apperr.MetaStage:    apperr.StageCapture,
			apperr.MetaSelector: selector,
		})
	}

	if count == 0 {
		return nil, apperr.Wrap(op, apperr.CodeElementNotFound, ErrElementNotFound, map[string]any{
			apperr.MetaReason:   "no_match",
			apperr.MetaStage:    apperr.StageCapture,
			apperr.MetaSelector: selector,
		})
	}

	raw, err := loc.First().Evaluate(metadataFunction, nil)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:   "metadata_extract_failed",
			apperr.MetaStage:    apperr.StageCapture,
			apperr.MetaSelector: selector,
		})
	}

	return m.toMetadata(ctx, op, raw)
}

// CaptureAtPoint extracts metadata of the element under viewport coordinates.
func (m *Manager) CaptureAtPoint(ctx context.Context, x, y float64) (meta *entity.ElementMetadata, err error) {
	const op = "CaptureAtPoint"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.Float64("x", x), zap.Float64("y", y))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op,
		attribute.Float64("x", x),
		attribute.Float64("y", y),
	)
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return nil, err
	}

	raw, err := m.page.Evaluate(captureAtPointScript, map[string]interface{}{"x": x, "y": y})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "element_from_point_failed",
			apperr.MetaStage:  apperr.StageCapture,
		})
	}

	if raw == nil {
		return nil, apperr.Wrap(op, apperr.CodeElementNotFound, ErrElementNotFound, map[string]any{
			apperr.MetaReason: "no_element_at_point",
			apperr.MetaStage:  apperr.StageCapture,
		})
	}

	return m.toMetadata(ctx, op, raw)
}

// CaptureSelected returns the element picked in the page with Ctrl/Cmd+click
// and clears the selection. It returns nil, nil when nothing is selected.
func (m *Manager) CaptureSelected(ctx context.Context) (meta *entity.ElementMetadata, err error) {
	const op = "CaptureSelected"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return nil, err
	}

	raw, err := m.page.Evaluate(takeSelectionScript)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "selection_read_failed",
			apperr.MetaStage:  apperr.StageCapture,
		})
	}

	if raw == nil {
		return nil, nil
	}

	return m.toMetadata(ctx, op, raw)
}

func (m *Manager) HasSelection(ctx context.Context) (selected bool, err error) {
	const op = "HasSelection"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return false, err
	}

	v, err := m.page.Evaluate(hasSelectionScript)
	if err != nil {
		return false, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "selection_read_failed",
			apperr.MetaStage:  apperr.StageCapture,
		})
	}

	selected, _ = v.(bool)
	logger.Debug("Selection checked", zap.Bool("selected", selected))

	return selected, nil
}

// EnsureScriptActive re-arms the capture script when the current document
// lost it. Arming twice is a no-op in the page.
func (m *Manager) EnsureScriptActive(ctx context.Context) (err error) {
	const op = "EnsureScriptActive"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return err
	}

	armed, err := m.page.Evaluate(isArmedScript)
	if err == nil {
		if ok, _ := armed.(bool); ok {
			return nil
		}
	}

	step.AddEvent("arming capture script")

	if _, err := m.page.Evaluate(captureModeScript); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "script_inject_failed",
			apperr.MetaStage:  apperr.StageCapture,
		})
	}

	return nil
}

func (m *Manager) toMetadata(ctx context.Context, op string, raw interface{}) (*entity.ElementMetadata, error) {
	rawMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInternal, "unexpected_result_type")
	}

	meta := metadataFromMap(rawMap)
	if meta.TagName == "" {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInternal, "empty_tag_name")
	}

	if meta.CSSPath != "" {
		count, err := m.CountLiveMatches(ctx, meta.CSSPath)
		if err != nil {
			m.logger.Warn("Uniqueness check failed", zap.String(logg.Selector, meta.CSSPath), zap.Error(err))
		}
		meta.IsUnique = err == nil && count == 1
	}

	return &meta, nil
}

// CountLiveMatches counts nodes currently matching a CSS or XPath selector.
// Templates and host API expressions yield NotCountable without touching the
// page.
func (m *Manager) CountLiveMatches(ctx context.Context, selector string) (count int, err error) {
	const op = "CountLiveMatches"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	if !locator.IsCountable(selector) {
		logger.Debug("Selector is not countable")

		return NotCountable, nil
	}

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return 0, err
	}

	count, err = m.page.Locator(playwrightSelector(selector)).Count()
	if err != nil {
		return 0, apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason:   "selector_query_failed",
			apperr.MetaStage:    apperr.StageCount,
			apperr.MetaSelector: selector,
		})
	}

	step.SetAttributes(attribute.Int("count", count))

	return count, nil
}

func (m *Manager) Screenshot(ctx context.Context, path string) (err error) {
	const op = "Screenshot"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if err := m.requirePage(op); err != nil {
		return err
	}

	opts := playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(false),
	}
	if strings.HasSuffix(strings.ToLower(path), ".jpg") || strings.HasSuffix(strings.ToLower(path), ".jpeg") {
		opts.Type = playwright.ScreenshotTypeJpeg
		opts.Quality = playwright.Int(80)
	}

	if _, err = m.page.Screenshot(opts); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "screenshot_failed",
			apperr.MetaStage:  apperr.StageScreenshot,
		})
	}

	return nil
}

func (m *Manager) Status() entity.SessionStatus {
	status := entity.SessionStatus{Open: m.ready && m.page != nil}

	if status.Open {
		status.CurrentURL = m.page.URL()
	}

	if m.session != nil {
		s := *m.session
		status.Session = &s
	}

	return status
}

func (m *Manager) IsReady() bool {
	return m.ready
}
