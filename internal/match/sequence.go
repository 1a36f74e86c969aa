package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SequenceScorer is the Ratcliff/Obershelp ratio computed by difflib's
// SequenceMatcher over the runes of both strings: 2*M/T, where M is the
// number of matched runes and T the combined length.
type SequenceScorer struct{}

func (SequenceScorer) Name() string { return "ratio" }

// Bind prepares the query as the matcher's second sequence, which difflib
// indexes once and reuses for every candidate.
func (SequenceScorer) Bind(query string) func(string, float64) (float64, bool) {
	m := difflib.NewMatcher(nil, runes(query))

	return func(candidate string, cutoff float64) (float64, bool) {
		m.SetSeq1(runes(candidate))

		// upper bounds first, cheapest to most expensive
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			return 0, false
		}
		return m.Ratio(), true
	}
}

// runes splits s into one string per UTF-8 encoded rune
func runes(s string) []string {
	return strings.Split(s, "")
}
