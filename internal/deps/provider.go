// Package deps enumerates the packages whose licenses go into a bundle.
package deps

import (
	"context"

	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/spdx"
)

// Provider is the interface every package source implements. It returns
// the root package and all of its dependencies, direct and transitive.
type Provider interface {
	Packages(ctx context.Context) (root model.Package, pkgs []model.Package, err error)
}

// ApplyOverrides replaces the declared license of every package named in
// overrides with the parsed override expression.
func ApplyOverrides(pkgs []model.Package, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	for i := range pkgs {
		if expr, ok := overrides[pkgs[i].Name]; ok {
			pkgs[i].License = spdx.Parse(expr)
		}
	}
}
