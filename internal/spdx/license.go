// Package spdx models the license obligations a package declares: a single
// well-known identifier, a free-text custom license, a combination of
// several licenses, or nothing at all.
package spdx

import (
	"embed"
	"strings"
)

//go:embed templates/*.txt
var templates embed.FS

// Kind discriminates the License variants.
type Kind int

const (
	KindUnspecified Kind = iota
	KindKnown
	KindCustom
	KindMultiple
)

// ID is a well-known SPDX license identifier.
type ID string

const (
	MIT        ID = "MIT"
	Apache20   ID = "Apache-2.0"
	BSD2Clause ID = "BSD-2-Clause"
	BSD3Clause ID = "BSD-3-Clause"
	ISC        ID = "ISC"
	Unlicense  ID = "Unlicense"
	MPL20      ID = "MPL-2.0"
	GPL20      ID = "GPL-2.0"
	GPL30      ID = "GPL-3.0"
	LGPL21     ID = "LGPL-2.1"
	LGPL30     ID = "LGPL-3.0"
	AGPL30     ID = "AGPL-3.0"
	CC010      ID = "CC0-1.0"
	Zlib       ID = "Zlib"
	BSL10      ID = "BSL-1.0"
)

// KnownIDs lists every identifier recognised by Parse. Only some of them
// ship a template.
var KnownIDs = []ID{
	MIT, Apache20, BSD2Clause, BSD3Clause, ISC, Unlicense,
	MPL20, GPL20, GPL30, LGPL21, LGPL30, AGPL30, CC010, Zlib, BSL10,
}

// Op is the operator joining the parts of a KindMultiple license. Every
// part is bundled regardless; Op only affects how the license is printed.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
)

// License is one declared license obligation. The zero value is an
// unspecified license.
type License struct {
	kind   Kind
	id     ID
	custom string
	op     Op
	parts  []License
}

// Unspecified returns a license for packages that declare nothing.
func Unspecified() License { return License{} }

// Known returns the license for a well-known identifier.
func Known(id ID) License { return License{kind: KindKnown, id: id} }

// Custom returns a free-text license. Its text is found by filename only.
func Custom(name string) License { return License{kind: KindCustom, custom: name} }

// Multiple combines several licenses, each of which must be satisfied by
// its own text.
func Multiple(op Op, parts ...License) License {
	return License{kind: KindMultiple, op: op, parts: parts}
}

func (l License) Kind() Kind { return l.kind }

// ID returns the identifier of a KindKnown license.
func (l License) ID() ID { return l.id }

// CustomName returns the free text of a KindCustom license.
func (l License) CustomName() string { return l.custom }

// Parts returns the components of a KindMultiple license.
func (l License) Parts() []License { return l.parts }

// Template returns the canonical text of a well-known license, if one is
// bundled.
func (l License) Template() (string, bool) {
	if l.kind != KindKnown {
		return "", false
	}
	data, err := templates.ReadFile("templates/" + string(l.id) + ".txt")
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (l License) String() string {
	switch l.kind {
	case KindKnown:
		return string(l.id)
	case KindCustom:
		return l.custom
	case KindMultiple:
		names := make([]string, len(l.parts))
		for i, p := range l.parts {
			names[i] = p.String()
		}
		return strings.Join(names, " "+string(l.op)+" ")
	default:
		return "Unspecified"
	}
}

// Parse turns a declared license expression into a License. It accepts
// SPDX-style "A OR B" / "A AND B" expressions and the older "A/B" form.
// Parentheses are ignored and nested expressions are flattened; the first
// operator seen is kept for display.
func Parse(expr string) License {
	expr = strings.NewReplacer("(", " ", ")", " ").Replace(expr)
	fields := strings.Fields(strings.ReplaceAll(expr, "/", " / "))
	if len(fields) == 0 {
		return Unspecified()
	}

	var (
		parts   []License
		current []string
		op      Op
	)
	flush := func() {
		if len(current) > 0 {
			parts = append(parts, parseSingle(strings.Join(current, " ")))
			current = nil
		}
	}
	for _, f := range fields {
		var fieldOp Op
		switch strings.ToUpper(f) {
		case "AND":
			fieldOp = OpAnd
		case "OR", "/":
			fieldOp = OpOr
		default:
			current = append(current, f)
			continue
		}
		if op == "" {
			op = fieldOp
		}
		flush()
	}
	flush()

	switch len(parts) {
	case 0:
		return Unspecified()
	case 1:
		return parts[0]
	default:
		return Multiple(op, parts...)
	}
}

func parseSingle(s string) License {
	for _, id := range KnownIDs {
		if strings.EqualFold(s, string(id)) {
			return Known(id)
		}
	}
	return Custom(s)
}
