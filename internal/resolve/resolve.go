// Package resolve picks one license text out of the candidates found for a
// single license obligation.
package resolve

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/spdx"
	"github.com/dsablic/licbundle/internal/ui"
)

// Picker chooses among several equally ranked candidates. Without one the
// first candidate is used.
type Picker interface {
	Pick(title string, paths []string) (int, error)
}

// Resolver applies the selection policy and records its outcome in Flags.
type Resolver struct {
	Flags  *model.Flags
	Sink   ui.Sink
	Picker Picker
}

// Choose returns the candidate to bundle for lic, or nil if there is none.
//
// Confident candidates win over semi-confident ones, which win over unsure
// ones. A single candidate in the best tier is used as is; several are
// reported and the first is used. Anything below Confident, other than a
// single SemiConfident text, marks the run as low quality, and no candidate
// at all marks it as missing a license.
func (r *Resolver) Choose(pkg model.Package, lic spdx.License, texts []model.LicenseText) *model.LicenseText {
	confident, texts := partition(texts, model.Confident)
	semiConfident, unsure := partition(texts, model.SemiConfident)

	switch {
	case len(confident) == 1:
		return &confident[0]
	case len(confident) > 1:
		r.report(r.Sink.Error, fmt.Sprintf("%s has multiple candidates for license %s:", pkg.Name, lic), confident)
		return r.pick(pkg, lic, confident)

	case len(semiConfident) == 1:
		r.report(r.Sink.Warn, fmt.Sprintf("%s has only a low-confidence candidate for license %s:", pkg.Name, lic), semiConfident)
		return &semiConfident[0]
	case len(semiConfident) > 1:
		r.Flags.MarkLowQuality()
		r.report(r.Sink.Error, fmt.Sprintf("%s has multiple low-confidence candidates for license %s:", pkg.Name, lic), semiConfident)
		return r.pick(pkg, lic, semiConfident)

	case len(unsure) == 1:
		r.Flags.MarkLowQuality()
		r.report(r.Sink.Warn, fmt.Sprintf("%s has only a very low-confidence candidate for license %s:", pkg.Name, lic), unsure)
		return &unsure[0]
	case len(unsure) > 1:
		r.Flags.MarkLowQuality()
		r.report(r.Sink.Error, fmt.Sprintf("%s has multiple very low-confidence candidates for license %s:", pkg.Name, lic), unsure)
		return r.pick(pkg, lic, unsure)
	}

	r.Flags.MarkMissing()
	r.Sink.Error("%s has no candidate texts for license %s in %s", pkg.Name, lic, pkg.Dir)
	return nil
}

// partition moves every text into exactly one of two slices: those with
// confidence c and the rest, both in their original order.
func partition(texts []model.LicenseText, c model.Confidence) (match, rest []model.LicenseText) {
	for _, t := range texts {
		if t.Confidence == c {
			match = append(match, t)
		} else {
			rest = append(rest, t)
		}
	}
	return match, rest
}

func (r *Resolver) report(emit func(string, ...any), headline string, texts []model.LicenseText) {
	emit("%s", headline)
	for _, t := range texts {
		emit("    %s", t.Path)
	}
}

func (r *Resolver) pick(pkg model.Package, lic spdx.License, texts []model.LicenseText) *model.LicenseText {
	if r.Picker == nil {
		return &texts[0]
	}

	paths := make([]string, len(texts))
	for i, t := range texts {
		paths[i] = t.Path
	}
	idx, err := r.Picker.Pick(fmt.Sprintf("Which file holds the %s license of %s?", lic, pkg.Name), paths)
	if err != nil || idx < 0 || idx >= len(texts) {
		logrus.WithError(err).WithField("package", pkg.Name).Debug("picker failed, using first candidate")
		return &texts[0]
	}
	return &texts[idx]
}
