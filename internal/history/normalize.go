package history

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	errDateFields = errors.New("expected M/D/YY")
	errDateRange  = errors.New("date out of range")
	errFutureDate = errors.New("watch date is after today")
	errBlankTitle = errors.New("title has no words")
)

// Normalized holds the per-title aggregates, aligned by index and ordered by
// first occurrence in the history.
type Normalized struct {
	UniqueTitles        []CanonicalTitle
	EpisodeCounts       []int
	AvgDaysSinceViewing []float64
}

// Stats zips the aligned slices into one record per title
func (n *Normalized) Stats() []TitleStats {
	stats := make([]TitleStats, len(n.UniqueTitles))
	for i := range n.UniqueTitles {
		stats[i] = TitleStats{
			Title:               n.UniqueTitles[i],
			EpisodeCount:        n.EpisodeCounts[i],
			AvgDaysSinceViewing: n.AvgDaysSinceViewing[i],
		}
	}
	return stats
}

// Canonicalize tokenizes a raw title on whitespace and truncates it after the
// first token containing a colon, with the colon removed from that token.
// Titles without a colon keep every token.
func Canonicalize(raw string) CanonicalTitle {
	tokens := strings.Fields(raw)
	for i, tok := range tokens {
		if strings.Contains(tok, ":") {
			out := make(CanonicalTitle, i+1)
			copy(out, tokens[:i])
			out[i] = strings.ReplaceAll(tok, ":", "")
			return out
		}
	}
	return CanonicalTitle(tokens)
}

// ParseWatchDate parses an M/D/YY date; the two-digit year is offset by 2000.
func ParseWatchDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, errDateFields
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a number", errDateFields, p)
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	if year < 0 || year > 99 {
		return time.Time{}, fmt.Errorf("%w: year %d is not two digits", errDateRange, year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", errDateRange, month)
	}

	date := time.Date(year+2000, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, e.g. 2/30 becomes 3/2
	if day < 1 || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: day %d", errDateRange, day)
	}

	return date, nil
}

// DaysSince returns the whole calendar days from date to today. Only the
// calendar date of today is used, in today's own location.
func DaysSince(today, date time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(d).Hours() / 24)
}

// Normalize groups history rows by CanonicalTitle and computes episode counts
// and the mean days since viewing for each title. The result depends on
// today, so identical input yields different averages on different days.
func Normalize(rows []Row, today time.Time) (*Normalized, error) {
	titles := make([]CanonicalTitle, len(rows))
	days := make([]int, len(rows))

	for i, row := range rows {
		title := Canonicalize(row.Title)
		if len(title) == 0 {
			return nil, &ParseError{Row: i + 1, Field: "title", Value: row.Title, Err: errBlankTitle}
		}

		date, err := ParseWatchDate(row.WatchDate)
		if err != nil {
			return nil, &ParseError{Row: i + 1, Field: "date", Value: row.WatchDate, Err: err}
		}

		delta := DaysSince(today, date)
		if delta < 0 {
			return nil, &ParseError{Row: i + 1, Field: "date", Value: row.WatchDate, Err: errFutureDate}
		}

		titles[i] = title
		days[i] = delta
	}

	// CanonicalTitle -> row indices, in first-seen order
	groupIndex := make(map[string]int)
	var groups [][]int
	out := &Normalized{}

	for i, title := range titles {
		k := title.key()
		g, ok := groupIndex[k]
		if !ok {
			g = len(groups)
			groupIndex[k] = g
			groups = append(groups, nil)
			out.UniqueTitles = append(out.UniqueTitles, title)
		}
		groups[g] = append(groups[g], i)
	}

	out.EpisodeCounts = make([]int, len(groups))
	out.AvgDaysSinceViewing = make([]float64, len(groups))
	for g, indices := range groups {
		total := 0
		for _, i := range indices {
			total += days[i]
		}
		out.EpisodeCounts[g] = len(indices)
		out.AvgDaysSinceViewing[g] = float64(total) / float64(len(indices))
	}

	slog.Debug("Normalized viewing history", "rows", len(rows), "titles", len(out.UniqueTitles))

	return out, nil
}
