package main

import (
	"fmt"
	"os"

	"github.com/pevans/goldrates/rates"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.html>",
	Short: "Extract the rate table from a saved HTML page and print it as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		record, err := rates.ExtractHTML(string(data), cfg.Table)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), record)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
