// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsablic/licbundle/internal/model"
)

// WriteMarkdown writes the bundle report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# License Bundle Report\n\n")
	fmt.Fprintf(w, "**Root:** %s\n", report.Root)
	if report.Output != "" {
		fmt.Fprintf(w, "**Bundle:** %s\n", report.Output)
	}
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt)

	var missing, doubtful int
	for _, pkg := range report.Packages {
		if pkg.Missing {
			missing++
		}
		for _, f := range pkg.Files {
			if f.Confidence != model.Confident.String() {
				doubtful++
				break
			}
		}
	}

	// Summary
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Packages | %d |\n", len(report.Packages))
	fmt.Fprintf(w, "| Missing texts | %d |\n", missing)
	fmt.Fprintf(w, "| Low-confidence texts | %d |\n", doubtful)
	fmt.Fprintf(w, "| Status | %s |\n\n", status(report))

	// Per package
	fmt.Fprintf(w, "## Packages\n\n")
	fmt.Fprintf(w, "| Package | Version | License | Files | Confidence |\n")
	fmt.Fprintf(w, "|---------|---------|---------|-------|------------|\n")
	for _, pkg := range report.Packages {
		paths := make([]string, len(pkg.Files))
		confidences := make([]string, len(pkg.Files))
		for i, f := range pkg.Files {
			paths[i] = "`" + f.Path + "`"
			confidences[i] = f.Confidence
		}
		if pkg.Missing {
			paths = append(paths, "**missing**")
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			pkg.Name, pkg.Version, pkg.License, strings.Join(paths, "<br>"), strings.Join(confidences, "<br>"))
	}
	fmt.Fprintln(w)

	return nil
}

func status(report model.Report) string {
	var problems []string
	if report.MissingLicense {
		problems = append(problems, "missing license")
	}
	if report.LowQualityLicense {
		problems = append(problems, "low-quality license")
	}
	if len(problems) == 0 {
		return "ok"
	}
	return strings.Join(problems, ", ")
}
