package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pevans/goldrates/scraper"
)

// RenderedName is the Name of a RenderedFetcher.
const RenderedName = "rendered"

// RenderConfig holds configuration for the headless browser strategy.
type RenderConfig struct {
	UserAgent string
	// IdleTimeout bounds navigation plus the wait for network quiescence.
	IdleTimeout time.Duration
	// SelectorTimeout bounds each wait for the rate table to appear.
	SelectorTimeout time.Duration
	// ExecPath points at a specific Chrome binary. Empty searches the usual
	// locations.
	ExecPath string
	// NoSandbox disables Chrome's sandbox, which refuses to start as root.
	NoSandbox bool
	Table     scraper.TableConfig
}

// DefaultRenderConfig returns a 30s navigation budget and 10s selector
// waits.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		UserAgent:       DefaultUserAgent,
		IdleTimeout:     30 * time.Second,
		SelectorTimeout: 10 * time.Second,
		Table:           scraper.NewTableConfig(),
	}
}

// RenderedFetcher captures the DOM after client-side scripts have run, using
// a headless Chrome that lives only for the duration of one Fetch.
type RenderedFetcher struct {
	config RenderConfig
	logger *slog.Logger
}

// NewRenderedFetcher creates a rendered fetcher. A nil logger uses
// slog.Default().
func NewRenderedFetcher(config RenderConfig, logger *slog.Logger) *RenderedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderedFetcher{config: config, logger: logger}
}

func (f *RenderedFetcher) Name() string {
	return RenderedName
}

// Fetch implements Fetcher. The browser is shut down before Fetch returns
// on every path.
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(f.config.UserAgent))
	if f.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.config.ExecPath))
	}
	if f.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser on browserCtx so the timeouts below do not own it.
	if err := chromedp.Run(browserCtx); err != nil {
		return "", f.fail(url, fmt.Errorf("failed to start browser: %w", err))
	}

	// Only networkIdle for the document loaded by the navigation counts: the
	// first "init" after arming names its loader, and the initial blank page
	// is ignored.
	var (
		mu     sync.Mutex
		armed  bool
		loader cdp.LoaderID
		once   sync.Once
	)
	idle := make(chan struct{})
	chromedp.ListenTarget(browserCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch {
		case !armed:
		case e.Name == "init" && loader == "":
			loader = e.LoaderID
		case e.Name == "networkIdle" && loader != "" && e.LoaderID == loader:
			once.Do(func() { close(idle) })
		}
	})

	navCtx, cancelNav := context.WithTimeout(browserCtx, f.config.IdleTimeout)
	defer cancelNav()

	err := chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(context.Context) error {
			mu.Lock()
			armed = true
			mu.Unlock()
			return nil
		}),
		chromedp.Navigate(url),
		waitFor(idle),
	)
	if err != nil {
		return "", f.fail(url, fmt.Errorf("failed to load page: %w", err))
	}

	if err := f.waitForTable(browserCtx); err != nil {
		return "", f.fail(url, err)
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", f.fail(url, fmt.Errorf("failed to capture document: %w", err))
	}

	f.logger.Debug("rendered page", "strategy", RenderedName, "url", url, "bytes", len(html))

	return html, nil
}

// waitForTable waits for the rate table inside its container, then for any
// table at all.
func (f *RenderedFetcher) waitForTable(ctx context.Context) error {
	selectors := []string{
		f.config.Table.ContainerTableSelector(),
		f.config.Table.AnyTableSelector(),
	}

	var err error
	for _, sel := range selectors {
		err = f.waitForSelector(ctx, sel)
		if err == nil {
			return nil
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			break
		}
		f.logger.Debug("selector did not appear", "selector", sel, "timeout", f.config.SelectorTimeout)
	}

	return fmt.Errorf("failed waiting for rate table: %w", err)
}

func (f *RenderedFetcher) waitForSelector(ctx context.Context, sel string) error {
	waitCtx, cancel := context.WithTimeout(ctx, f.config.SelectorTimeout)
	defer cancel()

	return chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery))
}

func (f *RenderedFetcher) fail(url string, err error) error {
	return &FetchError{Strategy: RenderedName, URL: url, Err: err}
}

// waitFor blocks until ch is closed or the action's context ends.
func waitFor(ch <-chan struct{}) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
