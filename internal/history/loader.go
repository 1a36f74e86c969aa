package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/watchrec/internal/tabular"
	"github.com/lehigh-university-libraries/watchrec/internal/validation"
	"golang.org/x/text/unicode/norm"
)

var errMissingColumns = errors.New("expected a title and a date column")

// Load reads a viewing-history table. CSV files are read positionally
// (column 0 is the title, column 1 the watch date) below a header row
// whose names are not checked. JSONL and Parquet use the title/date fields.
func Load(path string) ([]Row, error) {
	format, err := tabular.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var rows []Row
	switch format {
	case tabular.FormatCSV:
		rows, err = loadCSV(path)
	case tabular.FormatJSONL:
		rows, err = tabular.ReadJSONL[Row](path)
	case tabular.FormatParquet:
		rows, err = tabular.ReadParquet[Row](path)
	}
	if err != nil {
		return nil, err
	}

	if err := validateRows(rows); err != nil {
		return nil, err
	}

	slog.Debug("Loaded viewing history", "path", path, "rows", len(rows))

	return rows, nil
}

func loadCSV(path string) ([]Row, error) {
	table, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(table.Rows))
	for i, rec := range table.Rows {
		if len(rec) < 2 {
			return nil, &ParseError{Row: i + 1, Field: "row", Value: fmt.Sprint(rec), Err: errMissingColumns}
		}
		rows = append(rows, Row{Title: rec[0], WatchDate: rec[1]})
	}

	return rows, nil
}

// validateRows NFC-normalizes titles in place and checks required fields
func validateRows(rows []Row) error {
	v := validation.New()
	for i := range rows {
		rows[i].Title = norm.NFC.String(rows[i].Title)

		if err := v.Validate(rows[i]); err != nil {
			field := "row"
			var verr *validation.Error
			if errors.As(err, &verr) && len(verr.Fields) > 0 {
				field = verr.Fields[0].Field
			}
			return &ParseError{Row: i + 1, Field: field, Value: "", Err: err}
		}
	}
	return nil
}
