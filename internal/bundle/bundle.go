// Package bundle renders the license texts of a set of packages into a
// single document.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dsablic/licbundle/internal/locate"
	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/resolve"
	"github.com/dsablic/licbundle/internal/spdx"
	"github.com/dsablic/licbundle/internal/ui"
)

// ErrBundleFailed is returned when the bundle was written but at least one
// license is missing or of low quality.
var ErrBundleFailed = errors.New("generating bundle finished with error(s)")

const missingLicenseHelp = `  No license text could be recognised for one or more packages.

  Please check the package directories named in the messages above for a
  license file. If there is one, its name or contents are not recognised
  yet and it is worth reporting so it can be handled in the future.

  If there is none, consider asking the package's maintainers to ship the
  text of their license with the package.`

const lowQualityLicenseHelp = `  One or more license texts put into the bundle could not be verified
  against their license. Please check the messages above.`

// Bundler walks packages and writes their license texts.
type Bundler struct {
	Locator  *locate.Locator
	Sink     ui.Sink
	Picker   resolve.Picker
	Progress ui.Progress
	// Hint, if set, names the license a directory's contents look like.
	// It is only consulted to explain very low-confidence matches.
	Hint func(dir string) string
	// Record, if set, receives what was bundled for each package.
	Record func(model.PackageResult)
}

// state is owned by a single Run.
type state struct {
	flags    model.Flags
	resolver *resolve.Resolver
	out      *lineWriter
	result   model.PackageResult
}

// Run writes the bundle for root and packages to out. Packages are written
// in name order. Write errors and unreadable package directories abort the
// run; missing or doubtful license texts are reported through the Sink and
// make Run return ErrBundleFailed once every package has been written.
func (b *Bundler) Run(ctx context.Context, root model.Package, packages []model.Package, out io.Writer) (model.Flags, error) {
	sorted := make([]model.Package, len(packages))
	copy(sorted, packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, c := sorted[i], sorted[j]
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		if a.Version != c.Version {
			return a.Version < c.Version
		}
		return a.Dir < c.Dir
	})

	st := &state{out: &lineWriter{w: out}}
	st.resolver = &resolve.Resolver{Flags: &st.flags, Sink: b.Sink, Picker: b.Picker}

	st.out.line("The %s package uses some third party libraries under their own license terms:", root.Name)
	st.out.line("")
	if st.out.err != nil {
		return st.flags, fmt.Errorf("write bundle: %w", st.out.err)
	}
	for i, pkg := range sorted {
		if err := ctx.Err(); err != nil {
			return st.flags, err
		}
		if err := b.writePackage(st, pkg); err != nil {
			return st.flags, err
		}
		st.out.line("")
		if st.out.err != nil {
			return st.flags, fmt.Errorf("write bundle: %w", st.out.err)
		}
		if b.Record != nil {
			b.Record(st.result)
		}
		if b.Progress != nil {
			b.Progress.Update(i+1, len(sorted), pkg.Name)
		}
	}
	if b.Progress != nil {
		b.Progress.Done(len(sorted))
	}

	if st.flags.MissingLicense {
		b.Sink.Error("%s", missingLicenseHelp)
	}
	if st.flags.LowQualityLicense {
		b.Sink.Error("%s", lowQualityLicenseHelp)
	}
	if !st.flags.OK() {
		return st.flags, ErrBundleFailed
	}
	return st.flags, nil
}

func (b *Bundler) writePackage(st *state, pkg model.Package) error {
	lic := pkg.License
	st.result = model.PackageResult{Name: pkg.Name, Version: pkg.Version, License: lic.String(), Files: []model.FileResult{}}
	st.out.line(" * %s under %s:", pkg.Name, lic)
	st.out.line("")

	if lic.Kind() == spdx.KindUnspecified {
		st.flags.MarkMissing()
		st.result.Missing = true
		b.Sink.Error("%s does not specify a license", pkg.Name)
		st.out.line("")
		return nil
	}

	text, err := b.Locator.FindGeneric(pkg.Dir, lic)
	if err != nil {
		return fmt.Errorf("%s: %w", pkg.Name, err)
	}
	if text != nil {
		b.reportGeneric(st, pkg, text)
		st.keep(lic, text)
		st.out.indented(text.Text)
		st.out.line("")
		return nil
	}

	if lic.Kind() == spdx.KindMultiple {
		for i, part := range lic.Parts() {
			if i > 0 {
				st.out.line("")
				st.out.line("    ===============")
				st.out.line("")
			}
			if err := b.writeLicense(st, pkg, part); err != nil {
				return err
			}
		}
	} else if err := b.writeLicense(st, pkg, lic); err != nil {
		return err
	}
	st.out.line("")
	return nil
}

func (b *Bundler) writeLicense(st *state, pkg model.Package, lic spdx.License) error {
	texts, err := b.Locator.Find(pkg.Dir, lic)
	if err != nil {
		return fmt.Errorf("%s: %w", pkg.Name, err)
	}
	text := st.resolver.Choose(pkg, lic, texts)
	if text == nil {
		st.result.Missing = true
		return nil
	}
	st.keep(lic, text)
	st.out.indented(text.Text)
	return nil
}

func (st *state) keep(lic spdx.License, text *model.LicenseText) {
	st.result.Files = append(st.result.Files, model.FileResult{
		Path:       text.Path,
		License:    lic.String(),
		Confidence: text.Confidence.String(),
	})
}

// reportGeneric explains a generically named file that is not a confident
// match. An unsure file is treated like a lone unsure candidate.
func (b *Bundler) reportGeneric(st *state, pkg model.Package, text *model.LicenseText) {
	switch text.Confidence {
	case model.Confident:
	case model.SemiConfident:
		b.Sink.Warn("%s has only a low-confidence candidate for license %s:", pkg.Name, pkg.License)
		b.Sink.Warn("    %s", text.Path)
	case model.Unsure:
		st.flags.MarkLowQuality()
		b.Sink.Error("%s has only a very low-confidence candidate for license %s:", pkg.Name, pkg.License)
		b.Sink.Error("    %s", text.Path)
		if b.Hint != nil {
			if id := b.Hint(pkg.Dir); id != "" && id != pkg.License.String() {
				b.Sink.Error("    its contents look like %s", id)
			}
		}
	}
}

// lineWriter keeps the first write error and drops everything after it.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) line(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format+"\n", args...)
}

// indented writes text line by line, each line prefixed by four spaces.
func (l *lineWriter) indented(text string) {
	for _, line := range lines(text) {
		l.line("    %s", line)
	}
}

// lines splits text on "\n", dropping a trailing "\r" from each line and
// the empty element after a final newline.
func lines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
