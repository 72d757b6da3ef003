package textmatch

import "strings"

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Normalize canonicalizes license text for comparison: line breaks become
// spaces, each pair of spaces becomes one, and the result is upper-cased.
//
// The pair replacement is a single left-to-right pass. Three spaces become
// two, not one, and the scoring thresholds depend on exactly this output.
func Normalize(text string) string {
	text = lineBreaks.Replace(text)
	text = strings.ReplaceAll(text, "  ", " ")
	return strings.ToUpper(text)
}
