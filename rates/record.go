package rates

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// DateKeyLayout is the layout of a DateKey.
const DateKeyLayout = "2006-01-02"

// DateKey identifies a snapshot by calendar date, formatted YYYY-MM-DD.
type DateKey string

// DateKeyOf returns the DateKey for the calendar date of t in t's location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// ParseDateKey validates s as a YYYY-MM-DD date.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(DateKeyLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateKey(s), nil
}

func (d DateKey) String() string {
	return string(d)
}

// Record maps canonical field names to values as published, e.g.
// {"22k_gold": "285.50"}.
type Record map[string]string

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Snapshot is one day's record.
type Snapshot struct {
	Date   DateKey
	Record Record
}
