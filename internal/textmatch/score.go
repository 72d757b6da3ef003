// Package textmatch decides whether a candidate file contains the text of a
// license by aligning it against the license template and measuring the
// edit distance of the aligned region.
package textmatch

import (
	"github.com/sirupsen/logrus"

	"github.com/dsablic/licbundle/internal/spdx"
)

// DefaultThreshold is the largest distance/length ratio, exclusive, that
// still counts as a match.
const DefaultThreshold = 0.1

// Score is the outcome of aligning one text against one template.
type Score struct {
	Offset   int `json:"offset"`
	Distance int `json:"distance"`
	Length   int `json:"length"`
}

// Ratio returns Distance/Length. An empty template has ratio 1.
func (s Score) Ratio() float64 {
	if s.Length == 0 {
		return 1
	}
	return float64(s.Distance) / float64(s.Length)
}

// Passes reports whether the ratio is strictly below threshold.
func (s Score) Passes(threshold float64) bool {
	return s.Length > 0 && s.Ratio() < threshold
}

// Compute scores text against template. Both are normalized first. The OSA
// distance between the full texts gives the offset at which the
// template-sized window is taken from the text; the window is then compared
// to the template with a plain edit distance. A window that would run past
// the end of the text is cut short, and the missing runes count as edits.
func Compute(text, template string) Score {
	t := []rune(Normalize(text))
	tmpl := Normalize(template)
	n := len([]rune(tmpl))

	offset := OSA(string(t), tmpl)
	start := min(offset, len(t))
	end := min(offset+n, len(t))

	return Score{
		Offset:   offset,
		Distance: Levenshtein(string(t[start:end]), tmpl),
		Length:   n,
	}
}

// Cache stores scores across runs. Implementations key on the raw inputs.
type Cache interface {
	Lookup(text, template string) (Score, bool)
	Store(text, template string, s Score)
}

// Matcher checks candidate texts against license obligations.
type Matcher struct {
	Threshold float64
	Cache     Cache
	Log       logrus.FieldLogger
}

// NewMatcher returns a Matcher using threshold, or DefaultThreshold when
// threshold is not positive.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{Threshold: threshold, Log: logrus.StandardLogger()}
}

// Matches reports whether text satisfies lic. Every part of a multiple
// license must match its own template; licenses without a template never
// match.
func (m *Matcher) Matches(text string, lic spdx.License) bool {
	switch lic.Kind() {
	case spdx.KindMultiple:
		if len(lic.Parts()) == 0 {
			return false
		}
		for _, part := range lic.Parts() {
			if !m.matchesKnown(text, part) {
				return false
			}
		}
		return true
	case spdx.KindKnown:
		return m.matchesKnown(text, lic)
	default:
		return false
	}
}

func (m *Matcher) matchesKnown(text string, lic spdx.License) bool {
	template, ok := lic.Template()
	if !ok {
		return false
	}
	s := m.Score(text, template)
	m.logger().WithFields(logrus.Fields{
		"license": lic.String(),
		"offset":  s.Offset,
	}).Debugf("score %d / %d", s.Distance, s.Length)
	return s.Passes(m.Threshold)
}

// Score computes (or recalls from the cache) the score of text against
// template.
func (m *Matcher) Score(text, template string) Score {
	if m.Cache != nil {
		if s, ok := m.Cache.Lookup(text, template); ok {
			return s
		}
	}
	s := Compute(text, template)
	if m.Cache != nil {
		m.Cache.Store(text, template, s)
	}
	return s
}

func (m *Matcher) logger() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}
