package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/goldrates/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded once before any command runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goldrates",
	Short: "goldrates fetches the published gold rate table and keeps a dated history of it.",
	Long: `goldrates fetches the published gold rate table and keeps a dated history of it.

Without a subcommand it behaves like "goldrates fetch".

Environment Variables:
  GOLDRATES_URL               Page carrying the rate table
  GOLDRATES_OUTPUT_DIR        Directory for snapshots and history.json (default: ./api)
  GOLDRATES_TIMEZONE          IANA zone used for dates (default: local time)
  GOLDRATES_CURRENCY_TOKEN    Token removed from values (default: AED)
  GOLDRATES_RENDER_ENABLED    Try a headless browser first (default: true)
  GOLDRATES_RENDER_EXEC_PATH  Chrome binary for rendering`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
	RunE: runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
}

// setupLogging sends structured diagnostics to stdout.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
