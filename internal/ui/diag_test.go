package ui_test

import (
	"bytes"
	"testing"

	"github.com/dsablic/licbundle/internal/ui"
)

func TestConsolePrefixes(t *testing.T) {
	var buf bytes.Buffer
	c := ui.NewConsole(&buf, false)

	c.Info("checking %d packages", 2)
	c.Warn("%s has only a low-confidence candidate", "foo")
	c.Error("%s does not specify a license", "bar")

	want := "checking 2 packages\n" +
		"warning: foo has only a low-confidence candidate\n" +
		"error: bar does not specify a license\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected console output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRecorderFlush(t *testing.T) {
	rec := &ui.Recorder{}
	rec.Warn("w %d", 1)
	rec.Error("e %d", 2)
	rec.Info("i %d", 3)

	if got := rec.Texts(ui.LevelError); len(got) != 1 || got[0] != "e 2" {
		t.Errorf("unexpected error texts %v", got)
	}

	var buf bytes.Buffer
	rec.Flush(ui.NewConsole(&buf, false))

	want := "warning: w 1\nerror: e 2\ni 3\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected flushed output %q, want %q", got, want)
	}
	if len(rec.Messages) != 0 {
		t.Errorf("expected recorder to be empty after flush, got %d", len(rec.Messages))
	}
}
