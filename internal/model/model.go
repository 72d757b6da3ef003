// internal/model/model.go
package model

import "github.com/dsablic/licbundle/internal/spdx"

//go:generate go tool stringer -type=Confidence -output=confidence_string.go

// Confidence ranks how trustworthy a discovered license text is.
type Confidence int

const (
	Confident Confidence = iota
	SemiConfident
	Unsure
)

// Package is one node of the dependency set: a name, a version and the
// directory its sources live in.
type Package struct {
	Name    string
	Version string
	Dir     string
	License spdx.License
}

// LicenseText is a candidate (or resolved) license file for a package.
type LicenseText struct {
	Path       string
	Text       string
	Confidence Confidence
}

// Flags holds the run-wide failure state. Both fields only ever go from
// false to true.
type Flags struct {
	MissingLicense    bool
	LowQualityLicense bool
}

// MarkMissing records that some obligation had no usable license text.
func (f *Flags) MarkMissing() { f.MissingLicense = true }

// MarkLowQuality records that some obligation was resolved from a
// low-confidence candidate.
func (f *Flags) MarkLowQuality() { f.LowQualityLicense = true }

// OK reports whether the run can be considered successful.
func (f *Flags) OK() bool {
	return !f.MissingLicense && !f.LowQualityLicense
}

// FileResult is a license file that was put into the bundle.
type FileResult struct {
	Path       string `json:"path"`
	License    string `json:"license"`
	Confidence string `json:"confidence"`
}

// PackageResult records what was bundled for one package.
type PackageResult struct {
	Name    string       `json:"name"`
	Version string       `json:"version,omitempty"`
	License string       `json:"license"`
	Files   []FileResult `json:"files"`
	Missing bool         `json:"missing,omitempty"`
}

// Report summarizes a bundle run.
type Report struct {
	GeneratedAt       string          `json:"generated_at"`
	Root              string          `json:"root"`
	Output            string          `json:"output,omitempty"`
	Packages          []PackageResult `json:"packages"`
	MissingLicense    bool            `json:"missing_license"`
	LowQualityLicense bool            `json:"low_quality_license"`
}
