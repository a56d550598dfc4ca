// Package pipeline runs one fetch, extract and persist cycle for the gold
// rate page.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/goldrates/config"
	"github.com/pevans/goldrates/fetch"
	"github.com/pevans/goldrates/rates"
	"github.com/pevans/goldrates/ratestore"
	"github.com/pevans/goldrates/scraper"
)

// Status is the terminal state of a run.
type Status int

const (
	// StatusNoData means nothing usable was fetched and nothing was written.
	StatusNoData Status = iota
	// StatusSaved means a snapshot was written and the ledger updated.
	StatusSaved
)

func (s Status) String() string {
	if s == StatusSaved {
		return "saved"
	}
	return "no-data"
}

// Result describes a finished run.
type Result struct {
	RunID  uuid.UUID
	Status Status

	// Reason is why a run ended with StatusNoData.
	Reason error

	Date           rates.DateKey
	Record         rates.Record
	Strategy       string
	HistoryEntries int
}

// Options holds what a Service needs besides its collaborators.
type Options struct {
	URL      string
	Table    scraper.TableConfig
	Location *time.Location // nil means local time
}

// Service sequences fetch, extraction, snapshot and history merge.
type Service struct {
	options  Options
	fetchers []fetch.Fetcher
	store    *ratestore.Store
	logger   *slog.Logger

	// Now supplies the current time; tests replace it.
	Now func() time.Time
}

// NewService creates a service that tries fetchers in order.
func NewService(options Options, store *ratestore.Store, logger *slog.Logger, fetchers ...fetch.Fetcher) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Location == nil {
		options.Location = time.Local
	}

	return &Service{
		options:  options,
		fetchers: fetchers,
		store:    store,
		logger:   logger,
		Now:      time.Now,
	}
}

// FromConfig wires a service from the process configuration: the rendered
// strategy first when enabled, then the static one.
func FromConfig(cfg config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var fetchers []fetch.Fetcher
	if cfg.Render.Enabled {
		fetchers = append(fetchers, fetch.NewRenderedFetcher(cfg.RenderFetch(), logger))
	}
	fetchers = append(fetchers, fetch.NewStaticFetcher(cfg.StaticFetch(), logger))

	options := Options{
		URL:      cfg.URL,
		Table:    cfg.Table,
		Location: loc,
	}

	return NewService(options, ratestore.NewStore(cfg.OutputDir, logger), logger, fetchers...), nil
}

// Store returns the store the service writes to.
func (s *Service) Store() *ratestore.Store {
	return s.store
}

// Today returns the DateKey a run started now would write.
func (s *Service) Today() rates.DateKey {
	return rates.DateKeyOf(s.Now().In(s.options.Location))
}

// Run performs one cycle. A failed fetch or a page without a rate table
// ends the run with StatusNoData and a nil error; only persistence failures
// and cancellation are returned as errors.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.New(), Status: StatusNoData}
	logger := s.logger.With("run_id", result.RunID.String())

	logger.Info("fetching gold rates", "url", s.options.URL)

	chain := fetch.NewChain(logger, s.extractable, s.fetchers...)
	fetched, err := chain.Fetch(ctx, s.options.URL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.Reason = err
		s.logNoData(logger, err)
		return result, nil
	}
	result.Strategy = fetched.Strategy

	record, err := rates.ExtractHTML(fetched.HTML, s.options.Table)
	if err != nil {
		result.Reason = err
		s.logNoData(logger, err)
		return result, nil
	}

	date := s.Today()
	if err := s.store.WriteSnapshot(date, record); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	entries, err := s.store.MergeHistory(date, record)
	if err != nil {
		return nil, fmt.Errorf("failed to update history: %w", err)
	}

	result.Status = StatusSaved
	result.Date = date
	result.Record = record
	result.HistoryEntries = entries

	logger.Info("run complete",
		"date", date,
		"strategy", fetched.Strategy,
		"fields", len(record),
		"history_entries", entries,
	)

	return result, nil
}

// extractable accepts markup only if it yields a non-empty rate record.
func (s *Service) extractable(html string) error {
	_, err := rates.ExtractHTML(html, s.options.Table)
	return err
}

func (s *Service) logNoData(logger *slog.Logger, err error) {
	if errors.Is(err, rates.ErrTableNotFound) {
		logger.Warn("gold rate table not found on the page, nothing saved", "err", err)
		return
	}
	logger.Warn("could not fetch gold rate page, nothing saved", "err", err)
}
