package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsablic/licbundle/internal/textmatch"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"mit license", "MIT LICENSE"},
		{"line one\nline two", "LINE ONE LINE TWO"},
		{"crlf\r\nending", "CRLF ENDING"},
		{"para\n\nbreak", "PARA BREAK"},
		// single pass: a run of three spaces keeps two
		{"a   b", "A  B"},
		{"a    b", "A  B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, textmatch.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalizeStableWithoutLongWhitespaceRuns(t *testing.T) {
	inputs := []string{
		"Permission is hereby granted,\nfree of charge",
		"Copyright (c) 2024\r\nAll rights reserved.",
		"MiXeD case\ttabs stay",
		"already NORMAL TEXT",
	}
	for _, in := range inputs {
		once := textmatch.Normalize(in)
		assert.Equal(t, once, textmatch.Normalize(once), "input %q", in)
	}
}

func TestNormalizeLongWhitespaceRunNeedsAnotherPass(t *testing.T) {
	once := textmatch.Normalize("a\n\n\nb")
	assert.Equal(t, "A  B", once)
	assert.Equal(t, "A B", textmatch.Normalize(once))
}
