// Package fetch retrieves the raw markup of a rate page. Strategies
// implement Fetcher and are tried in order by a Chain.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllStrategiesFailed is returned by Chain.Fetch when no strategy
// produced acceptable content.
var ErrAllStrategiesFailed = errors.New("all fetch strategies failed")

// Fetcher produces the raw HTML of a page.
type Fetcher interface {
	// Name identifies the strategy in logs and results.
	Name() string

	// Fetch returns the page markup or a *FetchError.
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError describes a failed fetch attempt.
type FetchError struct {
	Strategy   string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch of %s: HTTP %d: %v", e.Strategy, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch of %s: %v", e.Strategy, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AcceptFunc inspects fetched markup. A non-nil error rejects it and the
// chain moves on to the next strategy.
type AcceptFunc func(html string) error

// Result is the outcome of a successful chain fetch.
type Result struct {
	HTML     string
	Strategy string
}

// Chain tries each fetcher in order until one returns content that Accept
// allows.
type Chain struct {
	Fetchers []Fetcher
	Accept   AcceptFunc // nil accepts everything
	Logger   *slog.Logger
}

// NewChain creates a chain over the given fetchers.
func NewChain(logger *slog.Logger, accept AcceptFunc, fetchers ...Fetcher) *Chain {
	return &Chain{
		Fetchers: fetchers,
		Accept:   accept,
		Logger:   logger,
	}
}

// Fetch runs the strategies in order. Failures of all but the last strategy
// are logged and fall through to the next one.
func (c *Chain) Fetch(ctx context.Context, url string) (*Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for i, f := range c.Fetchers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := f.Fetch(ctx, url)
		if err == nil && c.Accept != nil {
			err = c.Accept(html)
		}
		if err == nil {
			return &Result{HTML: html, Strategy: f.Name()}, nil
		}

		lastErr = err
		if i < len(c.Fetchers)-1 {
			logger.Warn("fetch strategy failed, falling back",
				"strategy", f.Name(),
				"next", c.Fetchers[i+1].Name(),
				"err", err,
			)
		} else {
			logger.Error("fetch strategy failed", "strategy", f.Name(), "err", err)
		}
	}

	if lastErr == nil {
		return nil, ErrAllStrategiesFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, lastErr)
}
