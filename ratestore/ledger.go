package ratestore

import (
	"encoding/json"

	"github.com/pevans/goldrates/rates"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MaxHistoryEntries bounds the number of dates kept in the ledger.
const MaxHistoryEntries = 30

// Ledger is an ordered set of dated records, most recent first. It
// serializes as a JSON object whose key order is the ledger order.
type Ledger struct {
	entries *orderedmap.OrderedMap[string, rates.Record]
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: orderedmap.New[string, rates.Record]()}
}

// Len returns the number of dates in the ledger.
func (l *Ledger) Len() int {
	return l.entries.Len()
}

// Get returns the record stored for date.
func (l *Ledger) Get(date rates.DateKey) (rates.Record, bool) {
	return l.entries.Get(string(date))
}

// Dates returns the ledger's dates in order.
func (l *Ledger) Dates() []rates.DateKey {
	dates := make([]rates.DateKey, 0, l.entries.Len())
	for pair := l.entries.Oldest(); pair != nil; pair = pair.Next() {
		dates = append(dates, rates.DateKey(pair.Key))
	}
	return dates
}

// Snapshots returns the ledger's entries in order.
func (l *Ledger) Snapshots() []rates.Snapshot {
	snapshots := make([]rates.Snapshot, 0, l.entries.Len())
	for pair := l.entries.Oldest(); pair != nil; pair = pair.Next() {
		snapshots = append(snapshots, rates.Snapshot{
			Date:   rates.DateKey(pair.Key),
			Record: pair.Value,
		})
	}
	return snapshots
}

// append adds date at the end of the ledger. An existing entry for date
// keeps its position and takes the new record.
func (l *Ledger) append(date rates.DateKey, record rates.Record) {
	l.entries.Set(string(date), record)
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.entries)
}

// UnmarshalJSON fails only when data is not a JSON object. Entries that are
// not objects of strings are left out.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	ledger, _, err := decodeLedger(data)
	if err != nil {
		return err
	}
	l.entries = ledger.entries
	return nil
}

// decodeLedger parses a ledger object entry by entry, so one malformed day
// does not cost the others. It returns the dates it had to drop.
func decodeLedger(data []byte) (*Ledger, []rates.DateKey, error) {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, nil, err
	}

	ledger := NewLedger()
	var dropped []rates.DateKey
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		var record rates.Record
		if err := json.Unmarshal(pair.Value, &record); err != nil || len(record) == 0 {
			dropped = append(dropped, rates.DateKey(pair.Key))
			continue
		}
		ledger.append(rates.DateKey(pair.Key), record)
	}

	return ledger, dropped, nil
}

// Merge builds a new ledger with record under date first, followed by the
// entries of existing in their stored order. Any existing entry for date is
// dropped, so a date appears at most once, and the result holds at most
// MaxHistoryEntries dates. existing may be nil and is not modified; record is
// copied.
func Merge(existing *Ledger, date rates.DateKey, record rates.Record) *Ledger {
	merged := NewLedger()
	merged.append(date, record.Clone())

	if existing == nil {
		return merged
	}

	for pair := existing.entries.Oldest(); pair != nil; pair = pair.Next() {
		if merged.Len() >= MaxHistoryEntries {
			break
		}
		if pair.Key == string(date) {
			continue
		}
		merged.append(rates.DateKey(pair.Key), pair.Value)
	}

	return merged
}
