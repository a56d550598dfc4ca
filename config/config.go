package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pevans/goldrates/fetch"
	"github.com/pevans/goldrates/scraper"
)

// DefaultURL is the retailer page carrying the gold rate table.
const DefaultURL = "https://www.joyalukkas.com/ae/goldrate"

// DefaultOutputDir is where snapshots and the ledger are written.
const DefaultOutputDir = "./api"

// Config is the process-wide configuration. It is built once at startup and
// not changed afterwards.
type Config struct {
	URL       string              `yaml:"url"`
	OutputDir string              `yaml:"output_dir"`
	Timezone  string              `yaml:"timezone"` // IANA name; empty means local time
	Table     scraper.TableConfig `yaml:"table"`
	Static    StaticConfig        `yaml:"static"`
	Render    RenderConfig        `yaml:"render"`
}

// StaticConfig configures the plain HTTP fetch.
type StaticConfig struct {
	Timeout    time.Duration     `yaml:"timeout"`
	Attempts   int               `yaml:"attempts"`
	Backoff    time.Duration     `yaml:"backoff"`
	MaxBackoff time.Duration     `yaml:"max_backoff"`
	UserAgent  string            `yaml:"user_agent"`
	Headers    map[string]string `yaml:"headers"`
}

// RenderConfig configures the headless browser fetch.
type RenderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	SelectorTimeout time.Duration `yaml:"selector_timeout"`
	ExecPath        string        `yaml:"exec_path"`
	NoSandbox       bool          `yaml:"no_sandbox"` // needed when running as root in containers
}

// Default returns the built-in configuration.
func Default() Config {
	static := fetch.DefaultStaticConfig()
	render := fetch.DefaultRenderConfig()

	return Config{
		URL:       DefaultURL,
		OutputDir: DefaultOutputDir,
		Table:     scraper.NewTableConfig(),
		Static: StaticConfig{
			Timeout:    static.Timeout,
			Attempts:   static.Attempts,
			Backoff:    static.Backoff,
			MaxBackoff: static.MaxBackoff,
			UserAgent:  static.UserAgent,
			Headers:    static.Headers,
		},
		Render: RenderConfig{
			Enabled:         true,
			IdleTimeout:     render.IdleTimeout,
			SelectorTimeout: render.SelectorTimeout,
		},
	}
}

// Validate checks the configuration for values no run could work with.
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https scheme")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.Static.Attempts < 1 {
		return fmt.Errorf("static.attempts must be at least 1, got %d", c.Static.Attempts)
	}
	timeouts := []struct {
		key   string
		value time.Duration
	}{
		{"static.timeout", c.Static.Timeout},
		{"render.idle_timeout", c.Render.IdleTimeout},
		{"render.selector_timeout", c.Render.SelectorTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", timeout.key, timeout.value)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone dates are computed in.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StaticFetch returns the settings for fetch.NewStaticFetcher.
func (c Config) StaticFetch() fetch.StaticConfig {
	return fetch.StaticConfig{
		Timeout:    c.Static.Timeout,
		Attempts:   c.Static.Attempts,
		Backoff:    c.Static.Backoff,
		MaxBackoff: c.Static.MaxBackoff,
		UserAgent:  c.Static.UserAgent,
		Headers:    c.Static.Headers,
	}
}

// RenderFetch returns the settings for fetch.NewRenderedFetcher.
func (c Config) RenderFetch() fetch.RenderConfig {
	return fetch.RenderConfig{
		UserAgent:       c.Static.UserAgent,
		IdleTimeout:     c.Render.IdleTimeout,
		SelectorTimeout: c.Render.SelectorTimeout,
		ExecPath:        c.Render.ExecPath,
		NoSandbox:       c.Render.NoSandbox,
		Table:           c.Table,
	}
}
