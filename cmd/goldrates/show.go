package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pevans/goldrates/rates"
	"github.com/pevans/goldrates/ratestore"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [YYYY-MM-DD]",
	Short: "Show the snapshot for a date (default today).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := showDate(args)
		if err != nil {
			return err
		}

		store := ratestore.NewStore(cfg.OutputDir, slog.Default())
		record, err := store.ReadSnapshot(date)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No snapshot for %s.\n", date)
			return nil
		}

		printRecordTable(cmd.OutOrStdout(), date, record)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showDate(args []string) (rates.DateKey, error) {
	if len(args) == 1 {
		return rates.ParseDateKey(args[0])
	}

	loc, err := cfg.Location()
	if err != nil {
		return "", err
	}
	return rates.DateKeyOf(time.Now().In(loc)), nil
}
