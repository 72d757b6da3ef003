package textmatch

import (
	"github.com/agnivade/levenshtein"
	"github.com/hbollon/go-edlib"
)

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// OSA returns the optimal string alignment distance between a and b: the
// Levenshtein distance extended with transpositions of adjacent runes,
// where no substring is edited more than once.
func OSA(a, b string) int {
	return edlib.OSADamerauLevenshteinDistance(a, b)
}
