package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dsablic/licbundle/internal/spdx"
	"github.com/dsablic/licbundle/internal/textmatch"
	"github.com/dsablic/licbundle/internal/ui"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Show how closely a file matches a license template",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
	cmd.Flags().String("license", "", "License expression to score against, e.g. \"MIT OR Apache-2.0\"")
	cmd.Flags().Float64("threshold", textmatch.DefaultThreshold, "Largest distance/length ratio that counts as a match")
	cmd.MarkFlagRequired("license")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	expr, _ := cmd.Flags().GetString("license")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	text := string(data)

	lic := spdx.Parse(expr)
	parts := []spdx.License{lic}
	if lic.Kind() == spdx.KindMultiple {
		parts = lic.Parts()
	}

	matcher := textmatch.NewMatcher(threshold)
	color := ui.IsTTY()
	w := cmd.OutOrStdout()
	for _, part := range parts {
		tmpl, ok := part.Template()
		if !ok {
			fmt.Fprintf(w, "%s: no template\n", part)
			continue
		}
		s := matcher.Score(text, tmpl)
		verdict := "fail"
		style := failStyle
		if s.Passes(threshold) {
			verdict, style = "pass", passStyle
		}
		if color {
			verdict = style.Render(verdict)
		}
		fmt.Fprintf(w, "%s: offset %d, distance %d / %d, ratio %.4f, %s\n",
			part, s.Offset, s.Distance, s.Length, s.Ratio(), verdict)
	}

	if matcher.Matches(text, lic) {
		fmt.Fprintf(w, "%s matches\n", lic)
	} else {
		fmt.Fprintf(w, "%s does not match\n", lic)
	}
	return nil
}
