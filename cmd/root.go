package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/watchrec/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	// filled in by PersistentPreRunE before any subcommand runs
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "watchrec",
		Short: "Viewing-history statistics and genre recommendations",
		Long: `watchrec turns a streaming viewing-history export into per-title statistics
and a genre-based homepage of recommended titles from a catalog.

Settings come from built-in defaults, an optional watchrec.yaml (or --config /
WATCHREC_CONFIG), WATCHREC_* environment variables and finally command flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded

			if verbose {
				cfg.Log.Level = "debug"
			}
			setupLogging(cfg.Log.Level)

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newHistoryCmd(cfg))
	cmd.AddCommand(newHomepageCmd(cfg))

	return cmd
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
