package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dsablic/licbundle/internal/fetch"
	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/spdx"
)

// ManifestFile is the YAML description of a root package and its
// dependencies.
type ManifestFile struct {
	Root     string          `yaml:"root"`
	Packages []ManifestEntry `yaml:"packages"`
}

// ManifestEntry describes one package. Exactly one of Dir and Git must be
// set.
type ManifestEntry struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version,omitempty"`
	License     string `yaml:"license,omitempty"`
	LicenseFile string `yaml:"license_file,omitempty"`
	Dir         string `yaml:"dir,omitempty"`
	Git         string `yaml:"git,omitempty"`
	Ref         string `yaml:"ref,omitempty"`
}

// ParseManifest parses and validates manifest YAML.
func ParseManifest(data []byte) (*ManifestFile, error) {
	var mf ManifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if mf.Root == "" {
		return nil, errors.New("manifest: root is required")
	}
	for i, e := range mf.Packages {
		if e.Name == "" {
			return nil, fmt.Errorf("manifest: package %d: name is required", i)
		}
		if (e.Dir == "") == (e.Git == "") {
			return nil, fmt.Errorf("manifest: package %s: exactly one of dir and git is required", e.Name)
		}
	}
	return &mf, nil
}

// DeclaredLicense returns the obligation the entry declares. A license file
// without a license expression is a custom license found by that name.
func (e ManifestEntry) DeclaredLicense() spdx.License {
	if e.License == "" && e.LicenseFile != "" {
		return spdx.Custom(e.LicenseFile)
	}
	return spdx.Parse(e.License)
}

// Manifest reads packages from a manifest file. Relative directories are
// resolved against the manifest's own directory; git packages are cloned
// and removed again by Close.
type Manifest struct {
	Path   string
	Cloner *fetch.Cloner

	cleanups []func()
}

// NewManifest returns a Manifest provider for the file at path.
func NewManifest(path string, cloner *fetch.Cloner) *Manifest {
	return &Manifest{Path: path, Cloner: cloner}
}

func (m *Manifest) Packages(ctx context.Context) (model.Package, []model.Package, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return model.Package{}, nil, fmt.Errorf("failed to read manifest %s: %w", m.Path, err)
	}
	mf, err := ParseManifest(data)
	if err != nil {
		return model.Package{}, nil, err
	}

	base := filepath.Dir(m.Path)
	root := model.Package{Name: mf.Root, Dir: base}

	pkgs := make([]model.Package, 0, len(mf.Packages))
	for _, e := range mf.Packages {
		dir := e.Dir
		switch {
		case e.Git != "":
			if m.Cloner == nil {
				return root, nil, fmt.Errorf("package %s: git sources are not enabled", e.Name)
			}
			cloned, cleanup, err := m.Cloner.Clone(ctx, e.Git, e.Ref)
			if err != nil {
				return root, nil, fmt.Errorf("package %s: %w", e.Name, err)
			}
			m.cleanups = append(m.cleanups, cleanup)
			dir = cloned
		case !filepath.IsAbs(dir):
			dir = filepath.Join(base, dir)
		}

		pkgs = append(pkgs, model.Package{
			Name:    e.Name,
			Version: e.Version,
			Dir:     dir,
			License: e.DeclaredLicense(),
		})
	}
	return root, pkgs, nil
}

// Close removes any cloned repositories.
func (m *Manifest) Close() error {
	for _, cleanup := range m.cleanups {
		cleanup()
	}
	m.cleanups = nil
	return nil
}
