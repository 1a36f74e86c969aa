// Package match finds the catalog titles most similar to a query title.
//
// A Matcher keeps at most Limit candidates whose similarity reaches Cutoff,
// best first. Candidates with equal scores keep their input order. The
// similarity itself comes from a Scorer so the algorithm can be swapped
// without touching callers.
package match

import (
	"fmt"
	"sort"
)

const (
	// DefaultLimit and DefaultCutoff mirror difflib.get_close_matches
	DefaultLimit  = 3
	DefaultCutoff = 0.6
)

// Match is one accepted candidate
type Match struct {
	Candidate string
	Index     int // position in the candidate slice
	Score     float64
}

// Scorer computes similarity in [0, 1]. Bind returns a function comparing
// the bound query with one candidate; it reports false when the candidate
// cannot reach cutoff, which lets scorers skip expensive work.
type Scorer interface {
	Name() string
	Bind(query string) func(candidate string, cutoff float64) (float64, bool)
}

// Matcher selects the best candidates for a query
type Matcher struct {
	scorer Scorer
	limit  int
	cutoff float64
}

// New creates a Matcher. limit must be positive and cutoff within [0, 1].
func New(scorer Scorer, limit int, cutoff float64) (*Matcher, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0: %d", limit)
	}
	if cutoff < 0 || cutoff > 1 {
		return nil, fmt.Errorf("cutoff must be in [0.0, 1.0]: %v", cutoff)
	}
	return &Matcher{scorer: scorer, limit: limit, cutoff: cutoff}, nil
}

// Scorer returns the similarity algorithm in use
func (m *Matcher) Scorer() Scorer {
	return m.scorer
}

// BestMatches returns up to the configured limit of candidates scoring at
// least the cutoff, highest score first, ties in candidate order.
func (m *Matcher) BestMatches(query string, candidates []string) []Match {
	score := m.scorer.Bind(query)

	var matches []Match
	for i, c := range candidates {
		s, ok := score(c, m.cutoff)
		if !ok || s < m.cutoff {
			continue
		}
		matches = append(matches, Match{Candidate: c, Index: i, Score: s})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > m.limit {
		matches = matches[:m.limit]
	}
	return matches
}

// ScorerByName resolves a configured scorer name
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "ratio", "":
		return SequenceScorer{}, nil
	case "levenshtein":
		return LevenshteinScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q (supported: ratio, levenshtein)", name)
	}
}
