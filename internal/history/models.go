package history

import "strings"

// Row is one entry of a viewing-history export
type Row struct {
	Title     string `json:"title" parquet:"title" validate:"required"`
	WatchDate string `json:"date" parquet:"date" validate:"required"`
}

// CanonicalTitle is the word sequence identifying a show or movie.
// Episodes of one series share a CanonicalTitle.
type CanonicalTitle []string

// String joins the tokens with single spaces
func (c CanonicalTitle) String() string {
	return strings.Join(c, " ")
}

// key is a collision-free map key for exact token-sequence equality
func (c CanonicalTitle) key() string {
	return strings.Join(c, "\x1f")
}

// Equal reports exact token-sequence equality
func (c CanonicalTitle) Equal(other CanonicalTitle) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// TitleStats aggregates every row that maps to one CanonicalTitle
type TitleStats struct {
	Title               CanonicalTitle `json:"title" yaml:"title"`
	EpisodeCount        int            `json:"episode_count" yaml:"episodecount"`
	AvgDaysSinceViewing float64        `json:"avg_days_since_viewing" yaml:"avgdayssinceviewing"`
}
