package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/spdx"
)

// GoMod lists the modules required by a go.mod file. Modules are found in
// the module cache unless a replace directive points at a local directory.
// Go modules carry no license declaration, so Declare decides it from the
// module's files; without Declare every module is unspecified.
type GoMod struct {
	Path     string
	ModCache string
	Declare  func(dir string) spdx.License
}

// NewGoMod returns a GoMod provider for the go.mod at path using the
// default module cache.
func NewGoMod(path string, declare func(dir string) spdx.License) *GoMod {
	return &GoMod{Path: path, ModCache: DefaultModCache(), Declare: declare}
}

// DefaultModCache returns the module cache directory the go command uses.
func DefaultModCache() string {
	if dir := os.Getenv("GOMODCACHE"); dir != "" {
		return dir
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(filepath.SplitList(gopath)[0], "pkg", "mod")
}

func (g *GoMod) Packages(ctx context.Context) (model.Package, []model.Package, error) {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		return model.Package{}, nil, fmt.Errorf("read go.mod: %w", err)
	}
	f, err := modfile.Parse(g.Path, data, nil)
	if err != nil {
		return model.Package{}, nil, fmt.Errorf("parse go.mod: %w", err)
	}
	if f.Module == nil {
		return model.Package{}, nil, fmt.Errorf("parse go.mod: %s has no module directive", g.Path)
	}

	base := filepath.Dir(g.Path)
	root := model.Package{Name: f.Module.Mod.Path, Dir: base}

	pkgs := make([]model.Package, 0, len(f.Require))
	for _, r := range f.Require {
		if err := ctx.Err(); err != nil {
			return root, nil, err
		}
		dir, err := g.dir(base, replacement(f.Replace, r.Mod))
		if err != nil {
			return root, nil, fmt.Errorf("module %s: %w", r.Mod.Path, err)
		}
		lic := spdx.Unspecified()
		if g.Declare != nil {
			lic = g.Declare(dir)
		}
		pkgs = append(pkgs, model.Package{
			Name:    r.Mod.Path,
			Version: r.Mod.Version,
			Dir:     dir,
			License: lic,
		})
	}
	return root, pkgs, nil
}

// replacement applies the replace directives to mod. A replacement with a
// version only applies to that version; without one it applies to all.
func replacement(replaces []*modfile.Replace, mod module.Version) module.Version {
	for _, r := range replaces {
		if r.Old.Path == mod.Path && r.Old.Version == mod.Version {
			return r.New
		}
	}
	for _, r := range replaces {
		if r.Old.Path == mod.Path && r.Old.Version == "" {
			return r.New
		}
	}
	return mod
}

// dir returns the source directory of mod. A module without a version is a
// local path, relative to the go.mod's directory.
func (g *GoMod) dir(base string, mod module.Version) (string, error) {
	if mod.Version == "" {
		if filepath.IsAbs(mod.Path) {
			return mod.Path, nil
		}
		return filepath.Join(base, mod.Path), nil
	}
	path, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	version, err := module.EscapeVersion(mod.Version)
	if err != nil {
		return "", err
	}
	return filepath.Join(g.ModCache, filepath.FromSlash(path)+"@"+version), nil
}
