package search

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// SimilarityRatio scores lexical closeness of two strings on a 0–100 scale.
// Inputs are trimmed and case-folded first, so "sholay" and "Sholay" score
// 100. The score is the Levenshtein ratio against the longer input, rounded
// to the nearest integer.
func SimilarityRatio(a, b string) int {
	folded := cases.Fold()
	left := folded.String(strings.TrimSpace(a))
	right := folded.String(strings.TrimSpace(b))

	if left == right {
		return 100
	}

	longest := len([]rune(left))
	if l := len([]rune(right)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}

	distance := levenshtein.ComputeDistance(left, right)
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}
