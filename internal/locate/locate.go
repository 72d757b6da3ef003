// Package locate finds the files in a package directory that are likely to
// carry license text and grades them against the declared license.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"github.com/sirupsen/logrus"

	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/spdx"
	"github.com/dsablic/licbundle/internal/textmatch"
)

// DefaultGenericNames are the upper-cased file names that carry license
// text without saying which license it is.
var DefaultGenericNames = []string{"LICENSE", "LICENSE.MD", "LICENSE.TXT"}

// Locator scans package directories. Only the top level of a directory is
// looked at.
type Locator struct {
	Matcher      *textmatch.Matcher
	GenericNames []string
	Log          logrus.FieldLogger
}

// New returns a Locator with the default generic names.
func New(m *textmatch.Matcher) *Locator {
	return &Locator{Matcher: m, GenericNames: DefaultGenericNames, Log: logrus.StandardLogger()}
}

// FindGeneric returns the first generically named license file in dir, in
// file name order, graded against the whole of lic: Confident if it matches
// and Unsure otherwise. It returns nil when no such file can be read.
func (l *Locator) FindGeneric(dir string, lic spdx.License) (*model.LicenseText, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !l.isGeneric(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, ok := readText(path)
		if !ok {
			continue
		}
		confidence := model.Unsure
		if l.matches(path, text, lic) {
			confidence = model.Confident
		}
		return &model.LicenseText{Path: path, Text: text, Confidence: confidence}, nil
	}
	return nil, nil
}

// Find returns every file in dir whose name ties it to lic, graded
// Confident if its text matches and SemiConfident otherwise.
func (l *Locator) Find(dir string, lic spdx.License) ([]model.LicenseText, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	var texts []model.LicenseText
	for _, entry := range entries {
		if entry.IsDir() || !SpecificName(entry.Name(), lic) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, ok := readText(path)
		if !ok {
			continue
		}
		confidence := model.SemiConfident
		if l.matches(path, text, lic) {
			confidence = model.Confident
		}
		texts = append(texts, model.LicenseText{Path: path, Text: text, Confidence: confidence})
	}
	return texts, nil
}

// SpecificName reports whether a file called name is, by convention, the
// text of lic. Only MIT, Apache-2.0 and custom licenses have such names.
func SpecificName(name string, lic spdx.License) bool {
	switch lic.Kind() {
	case spdx.KindKnown:
		switch lic.ID() {
		case spdx.MIT:
			return name == "LICENSE-MIT"
		case spdx.Apache20:
			return name == "LICENSE-APACHE"
		}
	case spdx.KindCustom:
		upper := strings.ToUpper(name)
		custom := strings.ToUpper(lic.CustomName())
		return upper == custom || upper == "LICENSE-"+custom
	}
	return false
}

func (l *Locator) isGeneric(name string) bool {
	upper := strings.ToUpper(name)
	for _, g := range l.GenericNames {
		if upper == strings.ToUpper(g) {
			return true
		}
	}
	return false
}

func (l *Locator) matches(path, text string, lic spdx.License) bool {
	if l.Log != nil {
		l.Log.Debugf("checking %s against %s", path, lic)
	}
	return l.Matcher.Matches(text, lic)
}

// readText returns the contents of path if it is readable UTF-8 text.
func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false // skip unreadable files
	}
	if !utf8.Valid(data) || enry.IsBinary(data) {
		return "", false
	}
	return string(data), true
}
