// Package license guesses which license a directory is under by looking at
// its contents. It is used where a package declares nothing itself.
package license

import (
	"sort"

	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"

	"github.com/dsablic/licbundle/internal/spdx"
)

// DefaultThreshold is the minimum detector confidence for a guess.
const DefaultThreshold = 0.85

// Match is one license the detector believes a directory is under.
type Match struct {
	ID         string
	Confidence float32
	File       string
}

// Detector wraps go-license-detector.
type Detector struct {
	Threshold float32
}

// NewDetector returns a Detector using DefaultThreshold.
func NewDetector() *Detector {
	return &Detector{Threshold: DefaultThreshold}
}

// Matches returns every license detected in dir at or above the threshold,
// most confident first. Ties are ordered by identifier.
func (d *Detector) Matches(dir string) []Match {
	f, err := filer.FromDirectory(dir)
	if err != nil {
		return nil
	}

	results, err := licensedb.Detect(f)
	if err != nil {
		return nil
	}

	var matches []Match
	for id, m := range results {
		if m.Confidence < d.Threshold {
			continue
		}
		matches = append(matches, Match{ID: id, Confidence: m.Confidence, File: m.File})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].ID < matches[j].ID
	})
	return matches
}

// Detect returns the SPDX identifier of the most confident match in dir,
// or an empty string if none was found.
func (d *Detector) Detect(dir string) string {
	matches := d.Matches(dir)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].ID
}

// Declared returns the license dir appears to be under, or an unspecified
// license when nothing is detected confidently.
func (d *Detector) Declared(dir string) spdx.License {
	return spdx.Parse(d.Detect(dir))
}
