package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"smart-locator/internal/config"
	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
	"smart-locator/internal/usecase"
	"smart-locator/pkg/logg"
)

var errExit = errors.New("exit")

type Interface struct {
	config     *config.Config
	logger     *zap.Logger
	usecase    *usecase.Service
	shutdowner fx.Shutdowner
	in         io.Reader
	out        io.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	sigChan    chan os.Signal
	stopping   atomic.Bool
}

type Params struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Usecase    *usecase.Service
	Shutdowner fx.Shutdowner
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		config:     params.Config,
		logger:     params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:    params.Usecase,
		shutdowner: params.Shutdowner,
		in:         os.Stdin,
		out:        os.Stdout,
		ctx:        ctx,
		cancel:     cancel,
		sigChan:    make(chan os.Signal, 1),
	}
}

func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if _, ok := <-i.sigChan; ok {
			fmt.Fprintln(i.out, "\nInterrupt received, shutting down...")
			i.requestShutdown()
		}
	}()

	i.run()
	i.requestShutdown()

	return nil
}

// run reads commands until exit or end of input.
func (i *Interface) run() {
	scanner := bufio.NewScanner(i.in)

	for !i.stopping.Load() {
		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				return
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}
}

func (i *Interface) requestShutdown() {
	if !i.stopping.CompareAndSwap(false, true) {
		return
	}

	if i.shutdowner != nil {
		if err := i.shutdowner.Shutdown(); err != nil {
			i.logger.Error("Failed to request shutdown", zap.Error(err))
		}
	}
}

// Stop cancels in-flight commands. The browser is closed by the lifecycle
// hook that owns it.
func (i *Interface) Stop() error {
	i.logger.Info("Stopping console interface...")

	i.stopping.Store(true)
	i.cancel()
	signal.Stop(i.sigChan)

	fmt.Fprintln(i.out, "Goodbye!")

	return nil
}

func (i *Interface) handleCommand(input string) error {
	fields := strings.Fields(input)
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "open":
		return i.open(args)
	case "capture":
		if rest == "" {
			return fmt.Errorf("usage: capture <selector>")
		}

		res, err := i.usecase.Locator.CaptureAndGenerate(i.ctx, rest)
		if err != nil {
			return err
		}
		i.printResult(res)

		return nil
	case "at":
		return i.captureAt(args)
	case "poll":
		res, err := i.usecase.Locator.PollSelected(i.ctx)
		if err != nil {
			return err
		}

		if res == nil {
			fmt.Fprintln(i.out, "No element selected. Hover an element and Ctrl/Cmd+click it in the browser.")

			return nil
		}
		i.printResult(res)

		return nil
	case "count":
		if rest == "" {
			return fmt.Errorf("usage: count <locator>")
		}

		return i.count(rest)
	case "screenshot":
		if len(args) != 1 {
			return fmt.Errorf("usage: screenshot <path>")
		}

		if err := i.usecase.Browser.Screenshot(i.ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(i.out, "Screenshot saved to %s\n", args[0])

		return nil
	case "status":
		i.printStatus(i.usecase.Browser.Status())

		return nil
	case "close":
		if err := i.usecase.Browser.Close(i.ctx); err != nil {
			return err
		}
		fmt.Fprintln(i.out, "Browser closed")

		return nil
	}

	return fmt.Errorf("unknown command %q, type help", cmd)
}

func (i *Interface) open(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: open <url> [chromium|firefox|webkit]")
	}

	browserType := entity.BrowserType(i.config.BrowserConfig.Type)
	if len(args) == 2 {
		browserType = entity.BrowserType(strings.ToLower(args[1]))
	}

	if err := i.usecase.Browser.OpenURL(i.ctx, args[0], browserType); err != nil {
		return err
	}

	fmt.Fprintf(i.out, "Opened %s in %s. Ctrl/Cmd+click an element, then type poll.\n", args[0], browserType)

	return nil
}

func (i *Interface) captureAt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: at <x> <y>")
	}

	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}

	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	res, err := i.usecase.Locator.CaptureAtPointAndGenerate(i.ctx, x, y)
	if err != nil {
		return err
	}
	i.printResult(res)

	return nil
}

func (i *Interface) count(loc string) error {
	res, err := i.usecase.Locator.CountMatches(i.ctx, loc)
	if err != nil {
		return err
	}

	if !res.Countable {
		fmt.Fprintln(i.out, "Locator is a template or API call and cannot be counted")

		return nil
	}

	fmt.Fprintf(i.out, "Matches: %d\n", res.Count)

	if res.UniqueSuggestion != "" {
		fmt.Fprintf(i.out, "Try %s (%d match)\n", res.UniqueSuggestion, res.UniqueCount)
	}

	return nil
}

func (i *Interface) printResult(res *entity.LocatorResult) {
	m := res.Metadata

	fmt.Fprintf(i.out, "\nElement:  %s", heuristics.ElementType(m))
	if heuristics.IsFormElement(m) {
		fmt.Fprint(i.out, " (form control)")
	}
	fmt.Fprintln(i.out)

	fmt.Fprintf(i.out, "Best:     %s\n", res.BestLocator)
	fmt.Fprintf(i.out, "Score:    %.1f\n", res.Score)

	b := res.Breakdown
	fmt.Fprintf(i.out, "          stability %.0f, specificity %.0f, readability %.0f, performance %.0f\n",
		b.Stability, b.Specificity, b.Readability, b.Performance)

	types := make([]string, 0, len(res.Candidates))
	for t := range res.Candidates {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fmt.Fprintln(i.out, "By type:")
	for _, t := range types {
		fmt.Fprintf(i.out, "  %-6s %s\n", t, res.Candidates[entity.LocatorType(t)])
	}

	fmt.Fprintln(i.out, "Reasons:")
	for _, r := range res.Reasons {
		fmt.Fprintf(i.out, "  - %s\n", r)
	}
}

func (i *Interface) printStatus(status entity.SessionStatus) {
	if !status.Open {
		fmt.Fprintln(i.out, "Browser: closed")

		return
	}

	fmt.Fprintln(i.out, "Browser: open")
	fmt.Fprintf(i.out, "URL:     %s\n", status.CurrentURL)

	if status.Session != nil {
		fmt.Fprintf(i.out, "Session: %s (%s, since %s)\n",
			status.Session.ID, status.Session.BrowserType, status.Session.StartedAt.Format("15:04:05"))
	}
}

func (i *Interface) printBanner() {
	fmt.Fprintln(i.out, `
==================================================
  Smart Locator
  Capture an element, get the most robust locator
==================================================`)
}

func (i *Interface) printHelp() {
	fmt.Fprintln(i.out, `
Available commands:
  open <url> [browser]  - Open a page (chromium, firefox or webkit)
  capture <selector>    - Capture by CSS or XPath and generate locators
  at <x> <y>            - Capture the element at viewport coordinates
  poll                  - Generate locators for the Ctrl/Cmd+clicked element
  count <locator>       - Count live matches of a locator
  screenshot <path>     - Save a screenshot of the current page
  status                - Show browser session status
  close                 - Close the browser
  help, h               - Show this help message
  exit, quit, q         - Exit the application`)
}
