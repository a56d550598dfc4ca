package ratestore

import (
	"os"

	"github.com/pevans/goldrates/rates"
)

// LoadStatus tells how a ledger load went.
type LoadStatus int

const (
	// LoadOK means the ledger file was read and parsed.
	LoadOK LoadStatus = iota
	// LoadMissing means there was no ledger file yet.
	LoadMissing
	// LoadCorrupt means the file could not be read or was not a JSON object.
	// The ledger starts over empty.
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of LoadHistory. Ledger is never nil.
type LoadResult struct {
	Ledger *Ledger
	Status LoadStatus
	Err    error // the cause when Status is LoadCorrupt

	// Dropped lists dates whose entries were not objects of strings. They are
	// left out of Ledger; the rest of the file is kept.
	Dropped []rates.DateKey
}

// Recovered reports whether the ledger was reset to empty.
func (r LoadResult) Recovered() bool {
	return r.Status != LoadOK
}

// LoadHistory reads the ledger file. A missing or unreadable ledger is not
// an error: the result carries an empty ledger and says why.
func (s *Store) LoadHistory() LoadResult {
	data, err := os.ReadFile(s.HistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{Ledger: NewLedger(), Status: LoadMissing}
		}
		return LoadResult{Ledger: NewLedger(), Status: LoadCorrupt, Err: err}
	}

	ledger, dropped, err := decodeLedger(data)
	if err != nil {
		return LoadResult{Ledger: NewLedger(), Status: LoadCorrupt, Err: err}
	}

	return LoadResult{Ledger: ledger, Status: LoadOK, Dropped: dropped}
}

// SaveHistory replaces the ledger file with ledger.
func (s *Store) SaveHistory(ledger *Ledger) error {
	return s.writeJSON(s.HistoryPath(), ledger)
}

// MergeHistory puts record at the front of the ledger under date, replacing
// any entry for the same date, trims the ledger to MaxHistoryEntries and
// rewrites it. It returns the number of entries kept.
func (s *Store) MergeHistory(date rates.DateKey, record rates.Record) (int, error) {
	if len(record) == 0 {
		return 0, ErrEmptyRecord
	}

	loaded := s.LoadHistory()
	if loaded.Status == LoadCorrupt {
		s.logger.Warn("history ledger unreadable, starting a new one",
			"path", s.HistoryPath(),
			"err", loaded.Err,
		)
	}
	if len(loaded.Dropped) > 0 {
		s.logger.Warn("dropped malformed history entries",
			"path", s.HistoryPath(),
			"dates", loaded.Dropped,
		)
	}

	merged := Merge(loaded.Ledger, date, record)
	if err := s.SaveHistory(merged); err != nil {
		return 0, err
	}

	s.logger.Info("updated history", "path", s.HistoryPath(), "entries", merged.Len())
	return merged.Len(), nil
}
