package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists every supported output format
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s (supported: text, json, yaml, csv)", s)
}

// Meta describes the run that produced a report. It is only emitted by the
// machine-readable formats; text output depends on the data alone.
type Meta struct {
	RunID       string    `json:"run_id" yaml:"runid"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generatedat"`
	HistoryPath string    `json:"history_path" yaml:"historypath"`
	CatalogPath string    `json:"catalog_path,omitempty" yaml:"catalogpath,omitempty"`
	Matcher     string    `json:"matcher,omitempty" yaml:"matcher,omitempty"`
	Cutoff      float64   `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Limit       int       `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// NewMeta stamps a fresh run ID and the generation time
func NewMeta(historyPath string, now time.Time) Meta {
	return Meta{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC().Truncate(time.Second),
		HistoryPath: historyPath,
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return encoder.Close()
}

// Create opens a report file, creating its parent directories
func Create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
