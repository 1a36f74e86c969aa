package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/watchrec/internal/config"
	"github.com/lehigh-university-libraries/watchrec/internal/history"
	"github.com/lehigh-university-libraries/watchrec/internal/report"
	"github.com/spf13/cobra"
)

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var historyPath string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Summarize a viewing history by show or movie",
		Long: `Collapse a viewing-history export into one line per show or movie.

Episode titles are shortened at their first colon ("Stranger Things: Chapter One"
becomes "Stranger Things"), then counted and averaged. Days since viewing are
measured from today's date, so the same export reports different averages on
different days.

Dates are M/D/YY. A malformed date, or a watch date later than today (for
example from an export taken in a timezone ahead of yours), stops the run with
the offending row number.`,
		Example: `  # Summarize a Netflix export
  watchrec history --history NetflixViewingHistory.csv

  # Write CSV for a spreadsheet
  watchrec history --history NetflixViewingHistory.csv --format csv --output history.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("history") {
				cfg.History.Path = historyPath
			}
			if flags.Changed("format") {
				cfg.Report.Format = format
			}
			if flags.Changed("output") {
				cfg.Report.Output = output
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("--history is required")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return executeHistory(cmd, cfg, time.Now())
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "Path to the viewing-history file (.csv, .jsonl or .parquet)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, yaml, csv)")
	cmd.Flags().StringVar(&output, "output", "", "Write the report to this file instead of stdout")

	return cmd
}

func executeHistory(cmd *cobra.Command, cfg *config.Config, now time.Time) error {
	slog.Info("Loading viewing history", "path", cfg.History.Path)

	rows, err := history.Load(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to load viewing history: %w", err)
	}

	normalized, err := history.Normalize(rows, now)
	if err != nil {
		return fmt.Errorf("failed to normalize viewing history: %w", err)
	}

	slog.Info("Viewing history normalized", "rows", len(rows), "titles", len(normalized.UniqueTitles))

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	return writeOutput(cmd, cfg.Report.Output, func(w io.Writer) error {
		return report.WriteHistory(w, format, normalized.Stats(), report.NewMeta(cfg.History.Path, now))
	})
}

// writeOutput sends a report to the command's stdout or to path
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	w, err := report.Create(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Report saved", "path", path)
	return nil
}
