package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.June, 30, 21, 45, 0, 0, time.UTC)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want CanonicalTitle
	}{
		{raw: "Stranger Things: Chapter One", want: CanonicalTitle{"Stranger", "Things"}},
		{raw: "Inception", want: CanonicalTitle{"Inception"}},
		{raw: "The Office (U.S.): Season 2: Halloween", want: CanonicalTitle{"The", "Office", "(U.S.)"}},
		{raw: "  Black   Mirror:  Season 3 ", want: CanonicalTitle{"Black", "Mirror"}},
		{raw: "Dark", want: CanonicalTitle{"Dark"}},
		{raw: "Dark:", want: CanonicalTitle{"Dark"}},
		{raw: "Avatar The Last Airbender", want: CanonicalTitle{"Avatar", "The", "Last", "Airbender"}},
		{raw: "Mission:Impossible Fallout", want: CanonicalTitle{"MissionImpossible"}},
		{raw: "   ", want: CanonicalTitle{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Canonicalize(tt.raw)
			assert.True(t, tt.want.Equal(got), "got %q, want %q", []string(got), []string(tt.want))
		})
	}
}

func TestCanonicalTitleString(t *testing.T) {
	assert.Equal(t, "Stranger Things", Canonicalize("Stranger Things: Chapter One").String())
}

func TestParseWatchDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "7/4/22", want: time.Date(2022, time.July, 4, 0, 0, 0, 0, time.UTC)},
		{in: "12/31/19", want: time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{in: " 01/02/03 ", want: time.Date(2003, time.January, 2, 0, 0, 0, 0, time.UTC)},
		{in: "2/29/24", want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{in: "2/29/23", wantErr: true},
		{in: "13/1/22", wantErr: true},
		{in: "0/1/22", wantErr: true},
		{in: "1/0/22", wantErr: true},
		{in: "1/2/2022", wantErr: true},
		{in: "1/2", wantErr: true},
		{in: "1/2/3/4", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "2022-07-04", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWatchDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDaysSince(t *testing.T) {
	date := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysSince(today, date))

	// late evening in a western zone is still the same calendar day
	la := time.FixedZone("PDT", -7*60*60)
	assert.Equal(t, 10, DaysSince(time.Date(2024, time.June, 30, 23, 30, 0, 0, la), date))

	// across a leap day
	assert.Equal(t, 366, DaysSince(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNormalize(t *testing.T) {
	rows := []Row{
		{Title: "Stranger Things: Chapter One: The Vanishing of Will Byers", WatchDate: "6/20/24"},
		{Title: "Inception", WatchDate: "6/29/24"},
		{Title: "Stranger Things: Chapter Two: The Weirdo on Maple Street", WatchDate: "6/25/24"},
		{Title: "The Office (U.S.): Season 2: Halloween", WatchDate: "6/1/24"},
		{Title: "Stranger Things: Chapter Three", WatchDate: "6/30/24"},
	}

	got, err := Normalize(rows, today)
	require.NoError(t, err)

	require.Len(t, got.UniqueTitles, 3)
	assert.Equal(t, "Stranger Things", got.UniqueTitles[0].String())
	assert.Equal(t, "Inception", got.UniqueTitles[1].String())
	assert.Equal(t, "The Office (U.S.)", got.UniqueTitles[2].String())

	assert.Equal(t, []int{3, 1, 1}, got.EpisodeCounts)
	assert.InDelta(t, 5.0, got.AvgDaysSinceViewing[0], 1e-9)
	assert.Equal(t, 1.0, got.AvgDaysSinceViewing[1])
	assert.Equal(t, 29.0, got.AvgDaysSinceViewing[2])

	stats := got.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, TitleStats{Title: CanonicalTitle{"Inception"}, EpisodeCount: 1, AvgDaysSinceViewing: 1}, stats[1])
}

func TestNormalize_Coverage(t *testing.T) {
	rows := []Row{
		{Title: "Dark: Secrets", WatchDate: "1/1/24"},
		{Title: "Dark: Lies", WatchDate: "1/2/24"},
		{Title: "Dark", WatchDate: "1/3/24"},
		{Title: "Dark Matter: Episode 1", WatchDate: "1/4/24"},
		{Title: "Ozark: Season 1: Sugarwood", WatchDate: "2/1/24"},
		{Title: "Ozark: Season 1: Blue Cat", WatchDate: "2/2/24"},
		{Title: "Roma", WatchDate: "3/3/23"},
	}

	got, err := Normalize(rows, today)
	require.NoError(t, err)

	total := 0
	for _, c := range got.EpisodeCounts {
		assert.GreaterOrEqual(t, c, 1)
		total += c
	}
	assert.Equal(t, len(rows), total)

	for _, row := range rows {
		title := Canonicalize(row.Title)
		matches := 0
		for _, u := range got.UniqueTitles {
			if u.Equal(title) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "row %q", row.Title)
	}

	// "Dark: Secrets", "Dark: Lies" and "Dark" all canonicalize to ["Dark"]
	assert.Equal(t, "Dark", got.UniqueTitles[0].String())
	assert.Equal(t, 3, got.EpisodeCounts[0])
	assert.Len(t, got.UniqueTitles, 4)
}

func TestNormalize_SingleOccurrenceAverage(t *testing.T) {
	got, err := Normalize([]Row{{Title: "Roma", WatchDate: "3/3/23"}}, today)
	require.NoError(t, err)

	want := DaysSince(today, time.Date(2023, time.March, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, float64(want), got.AvgDaysSinceViewing[0])
	assert.Equal(t, 485, want)
}

func TestNormalize_Empty(t *testing.T) {
	got, err := Normalize(nil, today)
	require.NoError(t, err)
	assert.Empty(t, got.UniqueTitles)
	assert.Empty(t, got.Stats())
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		rows      []Row
		wantRow   int
		wantField string
	}{
		{
			name:      "malformed date aborts",
			rows:      []Row{{Title: "Inception", WatchDate: "6/1/24"}, {Title: "Roma", WatchDate: "June 1"}},
			wantRow:   2,
			wantField: "date",
		},
		{
			name:      "future date",
			rows:      []Row{{Title: "Inception", WatchDate: "7/1/24"}},
			wantRow:   1,
			wantField: "date",
		},
		{
			name:      "blank title",
			rows:      []Row{{Title: "Inception", WatchDate: "6/1/24"}, {Title: "Roma", WatchDate: "6/1/24"}, {Title: " \t", WatchDate: "6/1/24"}},
			wantRow:   3,
			wantField: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rows, today)
			require.Error(t, err)
			assert.Nil(t, got)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantRow, perr.Row)
			assert.Equal(t, tt.wantField, perr.Field)
		})
	}
}
