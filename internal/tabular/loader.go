package tabular

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ErrInputMissing is returned when an input table is absent or unreadable
var ErrInputMissing = errors.New("input missing")

// Format identifies the on-disk layout of a table
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// DetectFormat picks a format from the file extension
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".jsonl":
		return FormatJSONL, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .csv, .jsonl for JSON Lines, .parquet)", ext)
	}
}

// open opens path, mapping any failure onto ErrInputMissing
func open(path string) (*os.File, os.FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrInputMissing, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%w: failed to stat %s: %v", ErrInputMissing, path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s is a directory", ErrInputMissing, path)
	}

	return file, info, nil
}

// CSVTable is a header row plus the data rows beneath it
type CSVTable struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header column, or -1
func (t *CSVTable) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// ReadCSV loads a CSV file with a header row. Rows may have differing
// field counts; callers decide which columns they need.
func ReadCSV(path string) (*CSVTable, error) {
	slog.Debug("Opening CSV file", "path", path)

	file, info, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	slog.Debug("CSV file stats", "size_bytes", info.Size())

	r := csv.NewReader(bufio.NewReader(file))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file, expected a header row", path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	// Excel exports often lead with a byte order mark
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &CSVTable{Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		table.Rows = append(table.Rows, rec)
	}

	slog.Debug("Finished reading CSV file", "path", path, "rows", len(table.Rows))

	return table, nil
}

// ReadJSONL decodes one T per non-empty line
func ReadJSONL[T any](path string) ([]T, error) {
	slog.Debug("Opening JSONL file", "path", path)

	file, info, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	slog.Debug("JSONL file stats", "size_bytes", info.Size())

	var records []T
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)

	return records, nil
}

// ReadParquet reads every row of a parquet file into T using its parquet tags
func ReadParquet[T any](path string) ([]T, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, info, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	records := make([]T, 0, pf.NumRows())
	rows := make([]T, 128)

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))

	return records, nil
}
