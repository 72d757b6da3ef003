package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/licbundle/internal/locate"
	"github.com/dsablic/licbundle/internal/textmatch"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	assert.Equal(t, textmatch.DefaultThreshold, eff.Threshold)
	assert.Empty(t, eff.Cache)
	assert.Empty(t, eff.Output)
	assert.Empty(t, eff.Overrides)
	assert.Equal(t, locate.DefaultGenericNames, eff.GenericNames)
}

func TestLoadEffective_ExplicitConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "nope.yml"})
	assert.Equal(t, ErrCodeNotFound, Code(err), "err=%v", err)
}

func TestLoadEffective_FileValues(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, DefaultFile), []byte(`
threshold: 0.2
cache: .cache/scores.db
output: THIRDPARTY
overrides:
  example.com/foo: MIT
generic_names: [LICENSE, COPYING]
`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	assert.Equal(t, 0.2, eff.Threshold)
	assert.Equal(t, filepath.Join(cwd, ".cache", "scores.db"), eff.Cache)
	assert.Equal(t, filepath.Join(cwd, "THIRDPARTY"), eff.Output)
	assert.Equal(t, map[string]string{"example.com/foo": "MIT"}, eff.Overrides)
	assert.Equal(t, []string{"LICENSE", "COPYING"}, eff.GenericNames)
}

func TestLoadEffective_CLIOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "conf", "lic.yml"), []byte("threshold: 0.2\ncache: scores.db\noutput: out.txt\n"))

	eff, err := LoadEffective(cwd, CLIArgs{
		ConfigPath:   "conf/lic.yml",
		Threshold:    0.05,
		ThresholdSet: true,
		Output:       "other.txt",
		OutputSet:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.05, eff.Threshold)
	assert.Equal(t, filepath.Join(cwd, "other.txt"), eff.Output, "flag paths resolve against cwd")
	assert.Equal(t, filepath.Join(cwd, "conf", "scores.db"), eff.Cache, "file paths resolve against the file")
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":         "threshold: [",
		"unknown field":  "treshold: 0.2\n",
		"threshold zero": "threshold: 0\n",
		"threshold big":  "threshold: 1.5\n",
		"empty override": "overrides:\n  foo: \"\"\n",
		"blank generics": "generic_names: [\" \"]\n",
		"threshold type": "threshold: high\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			cwd := t.TempDir()
			writeFile(t, filepath.Join(cwd, DefaultFile), []byte(content))

			_, err := LoadEffective(cwd, CLIArgs{})
			assert.Equal(t, ErrCodeInvalid, Code(err), "err=%v", err)
		})
	}
}

func TestLoadEffective_InvalidThresholdFlag(t *testing.T) {
	_, err := LoadEffective(t.TempDir(), CLIArgs{Threshold: -1, ThresholdSet: true})
	assert.Equal(t, ErrCodeInvalid, Code(err))
}

func TestLoadEffective_EmptyFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, DefaultFile), nil)

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	assert.Equal(t, textmatch.DefaultThreshold, eff.Threshold)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Code: ErrCodeNotFound, Path: "/x/licbundle.yml"}
	assert.Equal(t, `config_not_found: config file "/x/licbundle.yml" not found`, err.Error())
	assert.Empty(t, Code(os.ErrNotExist))
}
