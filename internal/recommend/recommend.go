// Package recommend derives a viewer's genre affinity from fuzzy title
// matches against a catalog and suggests catalog titles for the top genres.
//
// Genre labels are the catalog's raw listed_in strings and are never split:
// "Dramas, International Movies" and "Dramas" are different genres.
package recommend

import (
	"log/slog"
	"sort"

	"github.com/lehigh-university-libraries/watchrec/internal/catalog"
	"github.com/lehigh-university-libraries/watchrec/internal/match"
)

const (
	DefaultTopGenres = 10
	DefaultPerGenre  = 20
)

// Matcher finds the catalog titles closest to a watched title
type Matcher interface {
	BestMatches(query string, candidates []string) []match.Match
}

// Options bounds the size of a report
type Options struct {
	TopGenres int
	PerGenre  int
}

// Recommender builds genre reports
type Recommender struct {
	matcher   Matcher
	topGenres int
	perGenre  int
}

// New creates a Recommender; zero options fall back to the defaults
func New(matcher Matcher, opts Options) *Recommender {
	if opts.TopGenres <= 0 {
		opts.TopGenres = DefaultTopGenres
	}
	if opts.PerGenre <= 0 {
		opts.PerGenre = DefaultPerGenre
	}
	return &Recommender{matcher: matcher, topGenres: opts.TopGenres, perGenre: opts.PerGenre}
}

// GenreCount is how many matches landed in one genre
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int    `json:"count" yaml:"count"`
}

// TitleCount is how often a catalog title matched the history
type TitleCount struct {
	Title string `json:"title" yaml:"title"`
	Count int    `json:"count" yaml:"count"`
}

// GenreRecommendation lists suggested titles for one genre
type GenreRecommendation struct {
	Genre  string       `json:"genre" yaml:"genre"`
	Hits   int          `json:"hits" yaml:"hits"`
	Titles []TitleCount `json:"titles" yaml:"titles"`
}

// Report is the homepage: genre affinity plus per-genre recommendations
type Report struct {
	WatchedTitles   int                   `json:"watched_titles" yaml:"watchedtitles"`
	CatalogEntries  int                   `json:"catalog_entries" yaml:"catalogentries"`
	Affinity        []GenreCount          `json:"affinity" yaml:"affinity"`
	Recommendations []GenreRecommendation `json:"recommendations" yaml:"recommendations"`
}

// index is built with a single scan of the catalog. Titles repeat once per
// catalog row, so duplicated rows compete for match slots and are counted
// per row.
type index struct {
	titles        []string            // one per catalog row, catalog order
	genres        []string            // listed_in of the row at the same position
	firstRow      map[string]int      // exact title -> first row carrying it
	titlesByGenre map[string][]string // one per catalog row, catalog order
}

func buildIndex(entries []catalog.Entry) *index {
	idx := &index{
		titles:        make([]string, 0, len(entries)),
		genres:        make([]string, 0, len(entries)),
		firstRow:      make(map[string]int),
		titlesByGenre: make(map[string][]string),
	}

	for i, e := range entries {
		idx.titles = append(idx.titles, e.Title)
		idx.genres = append(idx.genres, e.Genres)
		if _, ok := idx.firstRow[e.Title]; !ok {
			idx.firstRow[e.Title] = i
		}
		idx.titlesByGenre[e.Genres] = append(idx.titlesByGenre[e.Genres], e.Title)
	}

	return idx
}

// genreOf returns the genre label of the catalog row a match points at. A
// match whose index does not carry its title falls back to the first row
// with that exact title.
func (idx *index) genreOf(m match.Match) (string, bool) {
	if m.Index >= 0 && m.Index < len(idx.titles) && idx.titles[m.Index] == m.Candidate {
		return idx.genres[m.Index], true
	}
	if row, ok := idx.firstRow[m.Candidate]; ok {
		return idx.genres[row], true
	}
	return "", false
}

// Recommend matches every watched title against the catalog, ranks genres by
// hit count and suggests the most frequently matched titles of each of the
// top genres.
func (r *Recommender) Recommend(watched []string, entries []catalog.Entry) *Report {
	idx := buildIndex(entries)

	report := &Report{
		WatchedTitles:  len(watched),
		CatalogEntries: len(entries),
		Affinity:       r.affinity(watched, idx),
	}

	top := report.Affinity
	if len(top) > r.topGenres {
		top = top[:r.topGenres]
	}

	for _, g := range top {
		candidates := idx.titlesByGenre[g.Genre]

		var matched []string
		for _, w := range watched {
			for _, m := range r.matcher.BestMatches(w, candidates) {
				matched = append(matched, m.Candidate)
			}
		}

		ranked := rankByFrequency(matched)
		if len(ranked) > r.perGenre {
			ranked = ranked[:r.perGenre]
		}

		titles := make([]TitleCount, 0, len(ranked))
		for _, c := range ranked {
			titles = append(titles, TitleCount{Title: c.value, Count: c.count})
		}

		report.Recommendations = append(report.Recommendations, GenreRecommendation{
			Genre:  g.Genre,
			Hits:   g.Count,
			Titles: titles,
		})
	}

	slog.Debug("Built recommendations",
		"watched", len(watched),
		"catalog_rows", len(idx.titles),
		"genres", len(report.Affinity),
		"reported_genres", len(report.Recommendations))

	return report
}

// Affinity returns every genre ranked by match hits, without recommendations
func (r *Recommender) Affinity(watched []string, entries []catalog.Entry) []GenreCount {
	return r.affinity(watched, buildIndex(entries))
}

func (r *Recommender) affinity(watched []string, idx *index) []GenreCount {
	var hits []string
	for _, w := range watched {
		for _, m := range r.matcher.BestMatches(w, idx.titles) {
			genre, ok := idx.genreOf(m)
			if !ok {
				slog.Debug("Matched title has no catalog rows", "watched", w, "matched", m.Candidate)
				continue
			}
			hits = append(hits, genre)
		}
	}

	ranked := rankByFrequency(hits)
	out := make([]GenreCount, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, GenreCount{Genre: c.value, Count: c.count})
	}
	return out
}

type counted struct {
	value string
	count int
}

// rankByFrequency counts values and orders them by count descending, ties
// in order of first appearance.
func rankByFrequency(values []string) []counted {
	pos := make(map[string]int)
	var out []counted
	for _, v := range values {
		i, ok := pos[v]
		if !ok {
			i = len(out)
			pos[v] = i
			out = append(out, counted{value: v})
		}
		out[i].count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}
