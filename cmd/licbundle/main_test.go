package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsablic/licbundle/internal/spdx"
)

func TestReportFormatFor(t *testing.T) {
	tests := []struct {
		path, format string
		want         string
		wantErr      bool
	}{
		{"report.json", "", "json", false},
		{"report.md", "", "markdown", false},
		{"report", "", "json", false},
		{"report.json", "md", "markdown", false},
		{"report.md", "JSON", "json", false},
		{"report.md", "xml", "", true},
	}
	for _, tt := range tests {
		got, err := reportFormatFor(tt.path, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("reportFormatFor(%q, %q) error = %v", tt.path, tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("reportFormatFor(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestScoreCommand(t *testing.T) {
	tmpl, ok := spdx.Known(spdx.MIT).Template()
	if !ok {
		t.Fatal("no MIT template")
	}
	path := filepath.Join(t.TempDir(), "LICENSE")
	if err := os.WriteFile(path, []byte("Copyright (c) 2024 Example\n\n"+tmpl), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newScoreCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--license", "MIT", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if !strings.Contains(out.String(), "MIT matches") {
		t.Errorf("expected a match, got:\n%s", out.String())
	}
}

func TestScoreCommandRejectsThreshold(t *testing.T) {
	cmd := newScoreCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--license", "MIT", "--threshold", "2", "LICENSE"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for threshold 2")
	}
}

func TestHoldOutputPassesThrough(t *testing.T) {
	var out bytes.Buffer
	w, release := holdOutput(&out, false)
	if w != &out {
		t.Fatal("expected the output writer itself")
	}
	if err := release(); err != nil {
		t.Fatal(err)
	}
}

func TestHoldOutputDefersWrites(t *testing.T) {
	var out bytes.Buffer
	w, release := holdOutput(&out, true)

	if _, err := w.Write([]byte("bundle text\n")); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing written before release, got %q", out.String())
	}
	if err := release(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "bundle text\n" {
		t.Errorf("got %q", out.String())
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestHoldOutputReportsReleaseError(t *testing.T) {
	w, release := holdOutput(brokenWriter{}, true)
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := release(); err == nil {
		t.Fatal("expected the write error on release")
	}
}

func TestBundleHelpExplainsUnverifiedGenericFiles(t *testing.T) {
	cmd := newBundleCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "a custom license shipped\nonly under such a name fails the run") {
		t.Errorf("help text missing the generic-file note:\n%s", out.String())
	}
}
