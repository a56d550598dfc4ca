package ratestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pevans/goldrates/rates"
)

// HistoryFilename is the name of the ledger file inside the store directory.
const HistoryFilename = "history.json"

// ErrEmptyRecord is returned when asked to persist a record with no fields.
var ErrEmptyRecord = errors.New("refusing to persist an empty record")

// PersistenceError describes a failure to write a snapshot or the ledger.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store keeps dated snapshots and the history ledger as JSON files in one
// directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// SnapshotPath returns the file a snapshot for date is written to.
func (s *Store) SnapshotPath(date rates.DateKey) string {
	return filepath.Join(s.dir, string(date)+".json")
}

// HistoryPath returns the ledger file.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.dir, HistoryFilename)
}

// WriteSnapshot saves record as the snapshot for date, replacing any earlier
// snapshot for the same date.
func (s *Store) WriteSnapshot(date rates.DateKey, record rates.Record) error {
	if len(record) == 0 {
		return ErrEmptyRecord
	}

	path := s.SnapshotPath(date)
	if err := s.writeJSON(path, record); err != nil {
		return err
	}

	s.logger.Info("saved gold rate snapshot", "path", path, "fields", len(record))
	return nil
}

// ReadSnapshot loads the snapshot for date. It returns nil, nil if there is
// no snapshot for that date.
func (s *Store) ReadSnapshot(date rates.DateKey) (rates.Record, error) {
	data, err := os.ReadFile(s.SnapshotPath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var record rates.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return record, nil
}

// writeJSON marshals v with two-space indentation and replaces path with
// it, creating the store directory if needed.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &PersistenceError{Op: "create directory", Path: s.dir, Err: err}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "marshal", Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}

	return nil
}
