package utils

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// FirstN returns the first n runes of s.
func FirstN(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}

const ellipsis = "…"

// Truncate shortens s to at most n runes, replacing the tail with an
// ellipsis when anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if RuneCount(s) <= n {
		return s
	}
	if n == 1 {
		return ellipsis
	}
	return FirstN(s, n-1) + ellipsis
}

func RuneCount(s string) int {
	return len([]rune(s))
}

// SingleLine collapses all runs of whitespace, including newlines, into one
// space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var distanceMetric = metrics.NewLevenshtein()

func StringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	} // faster and fixes NaN issue with empty strings
	if strings.TrimSpace(s1) == strings.TrimSpace(s2) {
		return 0.95
	} // high score if exact match other than surrounding whitespace
	return strutil.Similarity(s1, s2, distanceMetric)
}
