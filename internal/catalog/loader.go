package catalog

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/watchrec/internal/tabular"
	"github.com/lehigh-university-libraries/watchrec/internal/validation"
	"golang.org/x/text/unicode/norm"
)

const (
	titleColumn  = "title"
	genresColumn = "listed_in"
)

// Load reads a catalog table. CSV files need a header with title and
// listed_in columns; any other columns are ignored.
func Load(path string) ([]Entry, error) {
	format, err := tabular.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	switch format {
	case tabular.FormatCSV:
		entries, err = loadCSV(path)
	case tabular.FormatJSONL:
		entries, err = tabular.ReadJSONL[Entry](path)
	case tabular.FormatParquet:
		entries, err = tabular.ReadParquet[Entry](path)
	}
	if err != nil {
		return nil, err
	}

	v := validation.New()
	for i := range entries {
		entries[i].Title = norm.NFC.String(entries[i].Title)
		if err := v.Validate(entries[i]); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
	}

	slog.Debug("Loaded catalog", "path", path, "entries", len(entries))

	return entries, nil
}

func loadCSV(path string) ([]Entry, error) {
	table, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	titleIdx := table.Column(titleColumn)
	genresIdx := table.Column(genresColumn)
	if titleIdx < 0 || genresIdx < 0 {
		return nil, fmt.Errorf("%s: catalog header must contain %q and %q columns, got %v",
			path, titleColumn, genresColumn, table.Header)
	}

	entries := make([]Entry, 0, len(table.Rows))
	for i, rec := range table.Rows {
		if titleIdx >= len(rec) || genresIdx >= len(rec) {
			return nil, fmt.Errorf("%s: row %d has %d fields, expected at least %d",
				path, i+1, len(rec), max(titleIdx, genresIdx)+1)
		}
		entries = append(entries, Entry{Title: rec[titleIdx], Genres: rec[genresIdx]})
	}

	return entries, nil
}
