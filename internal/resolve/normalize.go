package resolve

import (
	"math"
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	parenRe      = regexp.MustCompile(`\s*\(([^)]+)\)\s*`)
	separatorRe  = regexp.MustCompile(`\s*[-/]\s*`)
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	leadingTheRe = regexp.MustCompile(`^the\s+`)
	suffixRe     = regexp.MustCompile(`\s+(inc|llc|ltd|corp|dispensary|cannabis|club)\s*$`)
)

// NormalizeBasic standardizes a retailer name for comparison: lowercase,
// trim, strip trailing punctuation, collapse internal whitespace. This
// pass preserves the name's structure, catching case and punctuation
// drift ("HUB Dispensary." vs "HUB Dispensary").
func NormalizeBasic(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = strings.TrimRight(s, ".,;:")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeAggressive strips structure as well as noise: parenthesized
// qualifiers become bare tokens, hyphen/slash separators become spaces,
// remaining punctuation is dropped, a leading "the" and trailing
// corporate/retail suffixes are removed. Catches structural drift like
// "The Travel Agency (SoHo)" vs "Travel Agency - SoHo".
func NormalizeAggressive(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = parenRe.ReplaceAllString(s, " $1 ")
	s = separatorRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, "")
	s = leadingTheRe.ReplaceAllString(s, "")
	s = suffixRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var simParams = levenshtein.NewParams()

// Similarity scores two retailer names in [0, 1] using a two-pass
// comparison: the edit-distance ratio of the basic-normalized pair and
// of the aggressive-normalized pair, returning the higher score. Two
// empty names are identical (1.0). Symmetric by construction.
func Similarity(a, b string) float64 {
	basicA, basicB := NormalizeBasic(a), NormalizeBasic(b)
	if basicA == basicB {
		return 1.0
	}
	basic := levenshtein.Similarity(basicA, basicB, simParams)

	aggA, aggB := NormalizeAggressive(a), NormalizeAggressive(b)
	if aggA == aggB {
		return 1.0
	}
	aggressive := levenshtein.Similarity(aggA, aggB, simParams)

	return math.Max(basic, aggressive)
}
