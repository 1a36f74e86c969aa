package match

// LevenshteinScorer scores 1 - distance/maxLen over runes
type LevenshteinScorer struct{}

func (LevenshteinScorer) Name() string { return "levenshtein" }

func (LevenshteinScorer) Bind(query string) func(string, float64) (float64, bool) {
	q := []rune(query)

	return func(candidate string, cutoff float64) (float64, bool) {
		c := []rune(candidate)

		// the length difference alone bounds the distance from below
		maxLen := max(len(q), len(c))
		if maxLen > 0 {
			diff := len(q) - len(c)
			if diff < 0 {
				diff = -diff
			}
			if 1.0-float64(diff)/float64(maxLen) < cutoff {
				return 0, false
			}
		}

		return similarity(q, c), true
	}
}

// similarity converts the edit distance into a ratio in [0, 1]
func similarity(s1, s2 []rune) float64 {
	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := max(len(s1), len(s2))

	return 1.0 - (float64(distance) / float64(maxLen))
}

// levenshteinDistance keeps only the previous row of the DP matrix
func levenshteinDistance(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			curr[j] = min(deletion, insertion, substitution)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
