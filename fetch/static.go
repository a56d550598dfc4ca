package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-resty/resty/v2"
)

// StaticName is the Name of a StaticFetcher.
const StaticName = "static"

// DefaultUserAgent identifies as a desktop Firefox.
const DefaultUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// RetryStatusCodes are the responses worth another attempt.
var RetryStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// StaticConfig holds configuration for the plain HTTP strategy.
type StaticConfig struct {
	Timeout time.Duration
	// Attempts is the total number of requests, including the first.
	Attempts int
	// Backoff is the wait before the first retry; later waits double up to
	// MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	UserAgent  string
	Headers    map[string]string
}

// DefaultStaticConfig returns a 15s timeout, 3 attempts and a 0.5s backoff
// factor with browser-like headers.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Timeout:    15 * time.Second,
		Attempts:   3,
		Backoff:    500 * time.Millisecond,
		MaxBackoff: 4 * time.Second,
		UserAgent:  DefaultUserAgent,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
	}
}

// StaticFetcher performs a single GET with retries on transient failures.
type StaticFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// NewStaticFetcher creates a static fetcher. A nil logger uses
// slog.Default().
func NewStaticFetcher(config StaticConfig, logger *slog.Logger) *StaticFetcher {
	if logger == nil {
		logger = slog.Default()
	}

	attempts := max(config.Attempts, 1)

	client := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(attempts - 1).
		SetRetryWaitTime(config.Backoff).
		SetRetryMaxWaitTime(config.MaxBackoff).
		SetHeaders(config.Headers).
		AddRetryCondition(shouldRetry)

	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}

	client.OnError(func(req *resty.Request, err error) {
		logger.Debug("request failed",
			"method", req.Method,
			"url", req.URL,
			"attempt", req.Attempt,
			"err", err,
		)
	})

	return &StaticFetcher{client: client, logger: logger}
}

func shouldRetry(res *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if res == nil {
		return false
	}
	return slices.Contains(RetryStatusCodes, res.StatusCode())
}

func (f *StaticFetcher) Name() string {
	return StaticName
}

// Fetch implements Fetcher.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &FetchError{Strategy: StaticName, URL: url, Err: err}
	}

	if !res.IsSuccess() {
		return "", &FetchError{
			Strategy:   StaticName,
			URL:        url,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
	}

	f.logger.Debug("fetched page",
		"strategy", StaticName,
		"url", url,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"attempts", res.Request.Attempt,
	)

	return res.String(), nil
}
