package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/goldrates/rates"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// printJSON prints v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// snapshotsToMap keeps ledger order when printing a slice of snapshots as a
// JSON object
func snapshotsToMap(snapshots []rates.Snapshot) *orderedmap.OrderedMap[string, rates.Record] {
	out := orderedmap.New[string, rates.Record]()
	for _, s := range snapshots {
		out.Set(string(s.Date), s.Record)
	}
	return out
}

// printHistoryTable prints one row per date and one column per field. Each
// cell shows the value and its change from the next older date.
func printHistoryTable(w io.Writer, snapshots []rates.Snapshot, limit int) {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}

	shown := snapshots
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	fields := map[string]struct{}{}
	for _, s := range shown {
		for key := range s.Record {
			fields[key] = struct{}{}
		}
	}
	keys := slices.Sorted(maps.Keys(fields))

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Date"}
	for _, key := range keys {
		header = append(header, key)
	}
	t.AppendHeader(header)

	for i, s := range shown {
		var previous rates.Record
		if i+1 < len(snapshots) {
			previous = snapshots[i+1].Record
		}

		changes := map[string]rates.Change{}
		for _, change := range rates.Diff(s.Record, previous) {
			changes[change.Key] = change
		}

		row := table.Row{string(s.Date)}
		for _, key := range keys {
			row = append(row, formatCell(changes, key))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatCell(changes map[string]rates.Change, key string) string {
	change, ok := changes[key]
	if !ok {
		return "-"
	}
	if !change.Valid {
		return change.Current
	}
	return fmt.Sprintf("%s (%s)", change.Current, change.FormatDelta())
}

// printRecordTable prints a single snapshot as field/value rows
func printRecordTable(w io.Writer, date rates.DateKey, record rates.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(string(date))
	t.AppendHeader(table.Row{"Field", "Value"})

	for _, key := range record.Keys() {
		t.AppendRow(table.Row{key, record[key]})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
