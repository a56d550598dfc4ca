package main

import (
	"fmt"
	"log/slog"

	"github.com/pevans/goldrates/pipeline"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch today's rates, save a snapshot and update the history.",
	Long: `Fetch today's rates, save a snapshot and update the history.

A page that cannot be fetched or has no rate table is not an error: nothing
is written and the command exits successfully.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	service, err := pipeline.FromConfig(cfg, slog.Default())
	if err != nil {
		return err
	}

	result, err := service.Run(cmd.Context())
	if err != nil {
		return err
	}

	if result.Status != pipeline.StatusSaved {
		fmt.Fprintln(cmd.OutOrStdout(), "No gold rates saved.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d rates for %s (via %s), history holds %d days.\n",
		len(result.Record), result.Date, result.Strategy, result.HistoryEntries)
	return nil
}
