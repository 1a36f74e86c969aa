package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Candidate)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, 3, 0.6)
	assert.Error(t, err)

	_, err = New(SequenceScorer{}, 0, 0.6)
	assert.Error(t, err)

	_, err = New(SequenceScorer{}, 3, 1.01)
	assert.Error(t, err)

	_, err = New(SequenceScorer{}, 3, -0.1)
	assert.Error(t, err)

	m, err := New(SequenceScorer{}, DefaultLimit, DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, "ratio", m.Scorer().Name())
}

func TestSequenceScorer_Ratio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "abcd", b: "bcde", want: 0.75},
		{a: "appel", b: "apple", want: 0.8},
		{a: "appel", b: "ape", want: 0.75},
		{a: "Inception", b: "Inception", want: 1.0},
		{a: "", b: "", want: 1.0},
		{a: "abc", b: "", want: 0.0},
		{a: "café", b: "cafe", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			score := SequenceScorer{}.Bind(tt.a)
			got, ok := score(tt.b, 0)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBestMatches_CloseMatches(t *testing.T) {
	m, err := New(SequenceScorer{}, DefaultLimit, DefaultCutoff)
	require.NoError(t, err)

	got := m.BestMatches("appel", []string{"ape", "apple", "peach", "puppy"})
	assert.Equal(t, []string{"apple", "ape"}, candidates(got))
	assert.Equal(t, 1, got[0].Index)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)
	assert.Equal(t, 0, got[1].Index)
}

func TestBestMatches_NoMatches(t *testing.T) {
	m, err := New(SequenceScorer{}, DefaultLimit, DefaultCutoff)
	require.NoError(t, err)

	assert.Empty(t, m.BestMatches("wxyz", []string{"Inception", "Roma", "Dark"}))
	assert.Empty(t, m.BestMatches("Inception", nil))
}

func TestBestMatches_TiesKeepCandidateOrder(t *testing.T) {
	m, err := New(SequenceScorer{}, 2, DefaultCutoff)
	require.NoError(t, err)

	got := m.BestMatches("abcz", []string{"abcy", "abcx", "abcw", "abcz"})
	assert.Equal(t, []string{"abcz", "abcy"}, candidates(got))
	assert.Equal(t, 1.0, got[0].Score)
	assert.InDelta(t, 0.75, got[1].Score, 1e-9)
}

func TestBestMatches_Limit(t *testing.T) {
	m, err := New(SequenceScorer{}, DefaultLimit, 0)
	require.NoError(t, err)

	got := m.BestMatches("Show", []string{"Show A", "Show B", "Show C", "Show D", "Show"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Show", "Show A", "Show B"}, candidates(got))
}

func TestBestMatches_Duplicates(t *testing.T) {
	m, err := New(SequenceScorer{}, DefaultLimit, DefaultCutoff)
	require.NoError(t, err)

	got := m.BestMatches("Show A", []string{"Show A", "Other", "Show A"})
	assert.Equal(t, []string{"Show A", "Show A"}, candidates(got))
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}

func TestLevenshteinScorer(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "kitten", b: "sitting", want: 1 - 3.0/7.0},
		{a: "café", b: "cafe", want: 0.75},
		{a: "same", b: "same", want: 1.0},
		{a: "", b: "", want: 1.0},
		{a: "abc", b: "", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			score := LevenshteinScorer{}.Bind(tt.a)
			got, ok := score(tt.b, 0)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLevenshteinScorer_LengthPrefilter(t *testing.T) {
	score := LevenshteinScorer{}.Bind("Up")
	_, ok := score("The Lord of the Rings", 0.6)
	assert.False(t, ok)
}

func TestBestMatches_Levenshtein(t *testing.T) {
	m, err := New(LevenshteinScorer{}, DefaultLimit, DefaultCutoff)
	require.NoError(t, err)

	got := m.BestMatches("Stranger Thing", []string{"Strange Days", "Stranger Thinks", "Ozark", "Stranger Things"})
	assert.Equal(t, []string{"Stranger Things", "Stranger Thinks"}, candidates(got))
}

func TestScorerByName(t *testing.T) {
	s, err := ScorerByName("ratio")
	require.NoError(t, err)
	assert.IsType(t, SequenceScorer{}, s)

	s, err = ScorerByName("levenshtein")
	require.NoError(t, err)
	assert.IsType(t, LevenshteinScorer{}, s)

	_, err = ScorerByName("soundex")
	assert.Error(t, err)
}
