package resolve

// levenshtein and nearestIdentifier are grounded in openllb/hlb's
// diagnostic.Levenshtein/Suggestion (diagnostic/levenshtein.go): the same
// Wikibooks-derived single-row DP, translated to operate on identifier
// strings. Unlike openllb/hlb's Suggestion, §4.6 requires no distance
// threshold: Undefined always suggests the single nearest candidate, however
// far away it is, as long as there is at least one candidate.

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	column := make([]int, len(ra)+1)
	for y := 1; y <= len(ra); y++ {
		column[y] = y
	}
	for x := 1; x <= len(rb); x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len(ra); y++ {
			oldDiag := column[y]
			incr := 0
			if ra[y-1] != rb[x-1] {
				incr = 1
			}
			column[y] = min3(column[y]+1, column[y-1]+1, lastDiag+incr)
			lastDiag = oldDiag
		}
	}
	return column[len(ra)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// nearestIdentifier returns the candidate with the smallest Levenshtein
// distance to name. It returns ("", false) only when candidates is empty.
func nearestIdentifier(name string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	bestDist := levenshtein(name, best)
	for _, c := range candidates[1:] {
		if d := levenshtein(name, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, true
}
