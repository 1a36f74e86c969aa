package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/watchrec/internal/catalog"
	"github.com/lehigh-university-libraries/watchrec/internal/config"
	"github.com/lehigh-university-libraries/watchrec/internal/history"
	"github.com/lehigh-university-libraries/watchrec/internal/match"
	"github.com/lehigh-university-libraries/watchrec/internal/recommend"
	"github.com/lehigh-university-libraries/watchrec/internal/report"
	"github.com/spf13/cobra"
)

func newHomepageCmd(cfg *config.Config) *cobra.Command {
	var historyPath string
	var catalogSource string
	var matcher string
	var cutoff float64
	var limit int
	var topGenres int
	var perGenre int
	var format string
	var output string
	var cacheDir string
	var forceDownload bool
	var clearCache bool

	cmd := &cobra.Command{
		Use:   "homepage",
		Short: "Recommend catalog titles for the genres you watch most",
		Long: `Build a personal homepage from a viewing history and a title catalog.

Every watched title is fuzzy-matched against the catalog. The genres of the
matched titles are counted, and for each of the most frequent genres the
catalog titles that best match the history are listed.

Genres are the catalog's listed_in labels taken as-is: "Dramas, International
Movies" and "Dramas" are reported separately.`,
		Example: `  # Use netflix_titles.csv from the current directory
  watchrec homepage --history NetflixViewingHistory.csv

  # Download the catalog and emit YAML
  watchrec homepage --history NetflixViewingHistory.csv \
    --catalog https://example.org/netflix_titles.csv --format yaml

  # Stricter matching with edit distance
  watchrec homepage --history NetflixViewingHistory.csv --matcher levenshtein --cutoff 0.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("history") {
				cfg.History.Path = historyPath
			}
			if flags.Changed("catalog") {
				cfg.Catalog.Source = catalogSource
			}
			if flags.Changed("cache-dir") {
				cfg.Catalog.CacheDir = cacheDir
			}
			if flags.Changed("force-download") {
				cfg.Catalog.ForceDownload = forceDownload
			}
			if flags.Changed("clear-cache") {
				cfg.Catalog.ClearCache = clearCache
			}
			if flags.Changed("matcher") {
				cfg.Match.Algorithm = matcher
			}
			if flags.Changed("cutoff") {
				cfg.Match.Cutoff = cutoff
			}
			if flags.Changed("limit") {
				cfg.Match.Limit = limit
			}
			if flags.Changed("top-genres") {
				cfg.Report.TopGenres = topGenres
			}
			if flags.Changed("per-genre") {
				cfg.Report.PerGenre = perGenre
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

			return executeHomepage(cmd.Context(), cmd, cfg, time.Now())
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "Path to the viewing-history file (.csv, .jsonl or .parquet)")
	cmd.Flags().StringVar(&catalogSource, "catalog", "netflix_titles.csv", "Catalog file or http(s) URL with title and listed_in columns")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", catalog.DefaultCacheDir, "Directory for downloaded catalogs")
	cmd.Flags().BoolVar(&forceDownload, "force-download", false, "Download the catalog even if it is cached")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Remove every cached catalog before resolving --catalog")
	cmd.Flags().StringVar(&matcher, "matcher", "ratio", "Similarity algorithm (ratio, levenshtein)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", match.DefaultCutoff, "Minimum similarity for a title match (0.0-1.0)")
	cmd.Flags().IntVar(&limit, "limit", match.DefaultLimit, "Maximum catalog matches per watched title")
	cmd.Flags().IntVar(&topGenres, "top-genres", recommend.DefaultTopGenres, "Number of genres to report")
	cmd.Flags().IntVar(&perGenre, "per-genre", recommend.DefaultPerGenre, "Maximum titles per genre")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, yaml, csv)")
	cmd.Flags().StringVar(&output, "output", "", "Write the report to this file instead of stdout")

	return cmd
}

func executeHomepage(ctx context.Context, cmd *cobra.Command, cfg *config.Config, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	scorer, err := match.ScorerByName(cfg.Match.Algorithm)
	if err != nil {
		return err
	}
	matcher, err := match.New(scorer, cfg.Match.Limit, cfg.Match.Cutoff)
	if err != nil {
		return err
	}

	// Both inputs are loaded before any matching starts
	slog.Info("Loading viewing history", "path", cfg.History.Path)
	rows, err := history.Load(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to load viewing history: %w", err)
	}

	downloader := catalog.NewDownloader(catalog.DownloadConfig{
		CacheDir:      cfg.Catalog.CacheDir,
		ForceDownload: cfg.Catalog.ForceDownload,
	})
	if cfg.Catalog.ClearCache {
		if err := downloader.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear catalog cache: %w", err)
		}
	}
	catalogPath, err := downloader.Resolve(ctx, cfg.Catalog.Source)
	if err != nil {
		return err
	}

	slog.Info("Loading catalog", "path", catalogPath)
	entries, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	watched := make([]string, len(rows))
	for i, row := range rows {
		watched[i] = row.Title
	}

	slog.Info("Matching history against catalog",
		"watched", len(watched),
		"catalog_entries", len(entries),
		"matcher", scorer.Name(),
		"cutoff", cfg.Match.Cutoff)

	rec := recommend.New(matcher, recommend.Options{
		TopGenres: cfg.Report.TopGenres,
		PerGenre:  cfg.Report.PerGenre,
	}).Recommend(watched, entries)

	meta := report.NewMeta(cfg.History.Path, now)
	meta.CatalogPath = cfg.Catalog.Source
	meta.Matcher = scorer.Name()
	meta.Cutoff = cfg.Match.Cutoff
	meta.Limit = cfg.Match.Limit

	return writeOutput(cmd, cfg.Report.Output, func(w io.Writer) error {
		return report.WriteHomepage(w, format, rec, meta)
	})
}
