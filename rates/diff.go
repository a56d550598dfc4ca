package rates

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Change is the movement of one field between two records.
type Change struct {
	Key      string
	Current  string
	Previous string

	// Delta is Current minus Previous. Valid is false when either value is
	// missing or not a number.
	Delta decimal.Decimal
	Valid bool
}

// Diff compares current against previous field by field, in sorted key
// order of current. previous may be nil.
func Diff(current, previous Record) []Change {
	changes := make([]Change, 0, len(current))
	for _, key := range current.Keys() {
		change := Change{Key: key, Current: current[key]}

		prev, ok := previous[key]
		if ok {
			change.Previous = prev
			cur, curErr := ParseAmount(change.Current)
			old, oldErr := ParseAmount(prev)
			if curErr == nil && oldErr == nil {
				change.Delta = cur.Sub(old)
				change.Valid = true
			}
		}

		changes = append(changes, change)
	}

	return changes
}

// ParseAmount parses a published value such as "1,285.50" into a decimal.
func ParseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
}

// FormatDelta renders a change with an explicit sign, e.g. "+1.50".
func (c Change) FormatDelta() string {
	if !c.Valid {
		return "-"
	}
	if c.Delta.IsPositive() {
		return "+" + c.Delta.StringFixed(2)
	}
	return c.Delta.StringFixed(2)
}
