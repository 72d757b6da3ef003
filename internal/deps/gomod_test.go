package deps_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/licbundle/internal/deps"
	"github.com/dsablic/licbundle/internal/spdx"
)

const goMod = `module example.com/demo

go 1.22

require (
	github.com/BurntSushi/toml v1.3.2
	golang.org/x/text v0.14.0 // indirect
	example.com/local v0.0.0
)

replace example.com/local => ../local
`

func TestGoModPackages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte(goMod), 0644))

	cache := t.TempDir()
	var declared []string
	g := &deps.GoMod{
		Path:     path,
		ModCache: cache,
		Declare: func(dir string) spdx.License {
			declared = append(declared, dir)
			return spdx.Known(spdx.MIT)
		},
	}

	root, pkgs, err := g.Packages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", root.Name)
	require.Len(t, pkgs, 3)

	assert.Equal(t, "github.com/BurntSushi/toml", pkgs[0].Name)
	assert.Equal(t, "v1.3.2", pkgs[0].Version)
	assert.Equal(t, filepath.Join(cache, "github.com", "!burnt!sushi", "toml@v1.3.2"), pkgs[0].Dir)

	assert.Equal(t, filepath.Join(cache, "golang.org", "x", "text@v0.14.0"), pkgs[1].Dir)

	assert.Equal(t, filepath.Join(dir, "..", "local"), pkgs[2].Dir)

	assert.Len(t, declared, 3)
	for _, p := range pkgs {
		assert.Equal(t, spdx.MIT, p.License.ID())
	}
}

func TestGoModWithoutDeclare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("module example.com/a\n\nrequire example.com/b v1.0.0\n"), 0644))

	_, pkgs, err := (&deps.GoMod{Path: path, ModCache: t.TempDir()}).Packages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, spdx.KindUnspecified, pkgs[0].License.Kind())
}

func TestGoModMissingFile(t *testing.T) {
	_, _, err := (&deps.GoMod{Path: filepath.Join(t.TempDir(), "go.mod")}).Packages(context.Background())
	assert.Error(t, err)
}

func TestDefaultModCache(t *testing.T) {
	t.Setenv("GOMODCACHE", "/tmp/modcache")
	assert.Equal(t, "/tmp/modcache", deps.DefaultModCache())

	t.Setenv("GOMODCACHE", "")
	t.Setenv("GOPATH", "/tmp/gopath")
	assert.Equal(t, filepath.Join("/tmp/gopath", "pkg", "mod"), deps.DefaultModCache())
}
