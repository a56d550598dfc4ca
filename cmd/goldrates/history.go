package main

import (
	"fmt"
	"log/slog"

	"github.com/pevans/goldrates/ratestore"
	"github.com/spf13/cobra"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history [--format table|json] [--limit N]",
	Short: "Show the stored history, most recent first, with day over day changes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := ratestore.NewStore(cfg.OutputDir, slog.Default())

		loaded := store.LoadHistory()
		switch loaded.Status {
		case ratestore.LoadMissing:
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		case ratestore.LoadCorrupt:
			return fmt.Errorf("history at %s is unreadable: %w", store.HistoryPath(), loaded.Err)
		}
		if len(loaded.Dropped) > 0 {
			slog.Warn("skipping malformed history entries", "dates", loaded.Dropped)
		}

		snapshots := loaded.Ledger.Snapshots()

		switch historyFormat {
		case "table":
			printHistoryTable(cmd.OutOrStdout(), snapshots, historyLimit)
		case "json":
			if historyLimit > 0 && historyLimit < len(snapshots) {
				snapshots = snapshots[:historyLimit]
			}
			return printJSON(cmd.OutOrStdout(), snapshotsToMap(snapshots))
		default:
			return fmt.Errorf("invalid format %q, want table or json", historyFormat)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table or json")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Show at most N days (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
