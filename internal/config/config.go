// Package config loads licbundle.yml and merges it with command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dsablic/licbundle/internal/locate"
	"github.com/dsablic/licbundle/internal/textmatch"
)

const (
	// ErrCodeNotFound means an explicitly named config file does not exist.
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid means the config file could not be read or parsed, or a
	// field is out of range.
	ErrCodeInvalid = "config_invalid"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "licbundle.yml"

// CLIArgs holds the flags that can override the config file, together with
// whether each one was set explicitly.
type CLIArgs struct {
	ConfigPath string

	Threshold    float64
	ThresholdSet bool

	Cache    string
	CacheSet bool

	Output    string
	OutputSet bool
}

// FileConfig mirrors licbundle.yml.
type FileConfig struct {
	Threshold    *float64          `yaml:"threshold"`
	Cache        string            `yaml:"cache"`
	Output       string            `yaml:"output"`
	Overrides    map[string]string `yaml:"overrides"`
	GenericNames []string          `yaml:"generic_names"`
}

// EffectiveConfig is the merged configuration consumed by the commands.
type EffectiveConfig struct {
	Threshold    float64
	Cache        string
	Output       string
	Overrides    map[string]string
	GenericNames []string
}

// Error is a configuration error with a stable code.
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: config file %q not found", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s: config file %q is invalid: %v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s: config file %q is invalid", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code from err, or "" if err is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective reads the config file and merges it with cli.
//
// An explicit cli.ConfigPath must exist. Otherwise licbundle.yml in cwd is
// read if present. Flags set on the command line win over the file, which
// wins over the built-in defaults. Relative paths in the file resolve
// against the file's directory.
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, DefaultFile)
	explicit := strings.TrimSpace(cli.ConfigPath) != ""
	if explicit {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if explicit && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	return merge(cwdAbs, filepath.Dir(cfgPath), cli, fc, cfgPath)
}

func merge(cwd, cfgDir string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	threshold := textmatch.DefaultThreshold
	if cli.ThresholdSet {
		threshold = cli.Threshold
	} else if fc.Threshold != nil {
		threshold = *fc.Threshold
	}
	if threshold <= 0 || threshold > 1 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("threshold must be in (0, 1], got %v", threshold)}
	}

	cache := ""
	if cli.CacheSet {
		cache = absCleanFrom(cwd, cli.Cache)
	} else if strings.TrimSpace(fc.Cache) != "" {
		cache = absCleanFrom(cfgDir, fc.Cache)
	}

	output := ""
	if cli.OutputSet {
		output = absCleanFrom(cwd, cli.Output)
	} else if strings.TrimSpace(fc.Output) != "" {
		output = absCleanFrom(cfgDir, fc.Output)
	}

	overrides := make(map[string]string, len(fc.Overrides))
	for name, expr := range fc.Overrides {
		if strings.TrimSpace(expr) == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("override for %q is empty", name)}
		}
		overrides[name] = expr
	}

	names := locate.DefaultGenericNames
	if len(fc.GenericNames) > 0 {
		names = nil
		for _, n := range fc.GenericNames {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: errors.New("generic_names has no usable entries")}
		}
	}

	return EffectiveConfig{
		Threshold:    threshold,
		Cache:        cache,
		Output:       output,
		Overrides:    overrides,
		GenericNames: append([]string(nil), names...),
	}, nil
}

// absCleanFrom makes p absolute relative to base and cleans it.
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig reads and decodes a YAML config file. Unknown fields are
// rejected.
func readFileConfig(path string) (FileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, true, err
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
