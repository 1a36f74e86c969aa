package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/watchrec/internal/tabular"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHistory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeHistory(t, "NetflixViewingHistory.csv", `Title,Date
"Stranger Things: Chapter One: The Vanishing of Will Byers",6/20/24
Inception,6/29/24
`)

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Title: "Stranger Things: Chapter One: The Vanishing of Will Byers", WatchDate: "6/20/24"},
		{Title: "Inception", WatchDate: "6/29/24"},
	}, rows)
}

func TestLoad_CSVHeaderNamesIgnored(t *testing.T) {
	path := writeHistory(t, "history.csv", "Name,When,Profile\nRoma,3/3/23,kids\n")

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Row{{Title: "Roma", WatchDate: "3/3/23"}}, rows)
}

func TestLoad_NormalizesUnicode(t *testing.T) {
	// "Amélie" spelled with a combining acute accent
	path := writeHistory(t, "history.csv", "Title,Date\nAme\u0301lie,3/3/23\n")

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Am\u00e9lie", rows[0].Title)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantRow   int
		wantField string
	}{
		{name: "single column", content: "Title\nInception\n", wantRow: 1, wantField: "row"},
		{name: "empty title", content: "Title,Date\nRoma,3/3/23\n,3/4/23\n", wantRow: 2, wantField: "title"},
		{name: "empty date", content: "Title,Date\nRoma,\n", wantRow: 1, wantField: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeHistory(t, "history.csv", tt.content))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.wantRow, perr.Row)
			assert.Equal(t, tt.wantField, perr.Field)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, tabular.ErrInputMissing)
}

func TestLoad_JSONL(t *testing.T) {
	path := writeHistory(t, "history.jsonl", `{"title":"Inception","date":"6/29/24"}
{"title":"Dark: Secrets","date":"6/1/24"}
`)

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Title: "Inception", WatchDate: "6/29/24"},
		{Title: "Dark: Secrets", WatchDate: "6/1/24"},
	}, rows)
}

func TestLoad_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.parquet")
	want := []Row{
		{Title: "Inception", WatchDate: "6/29/24"},
		{Title: "Roma", WatchDate: "3/3/23"},
	}
	require.NoError(t, parquet.WriteFile(path, want))

	rows, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, rows)
}
