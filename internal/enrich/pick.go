package enrich

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// matchThreshold is the minimum Jaro-Winkler similarity for a search result
// to be accepted as a match for the requested title.
const matchThreshold = 0.70

// bestIndex returns the index of the candidate title closest to query, or -1
// when no candidate clears the similarity threshold.
func bestIndex(query string, candidates []string) int {
	normalizedQuery := normalizeForMatch(query)

	best := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedQuery, normalizeForMatch(candidate)))
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore < matchThreshold {
		return -1
	}
	return best
}

// normalizeForMatch lowercases, strips accents and punctuation, and collapses
// whitespace so similarity scoring isn't thrown off by formatting.
func normalizeForMatch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, _ := transform.String(t, strings.ToLower(s))

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
