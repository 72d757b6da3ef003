package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dsablic/licbundle/internal/auth"
	"github.com/dsablic/licbundle/internal/bundle"
	"github.com/dsablic/licbundle/internal/cache"
	"github.com/dsablic/licbundle/internal/config"
	"github.com/dsablic/licbundle/internal/deps"
	"github.com/dsablic/licbundle/internal/fetch"
	"github.com/dsablic/licbundle/internal/license"
	"github.com/dsablic/licbundle/internal/locate"
	"github.com/dsablic/licbundle/internal/model"
	"github.com/dsablic/licbundle/internal/output"
	"github.com/dsablic/licbundle/internal/textmatch"
	"github.com/dsablic/licbundle/internal/ui"
)

const bundleLong = `Write the license texts of all dependencies into one file.

The command exits with status 1 when a license text is missing or could not
be verified. A file named LICENSE, LICENSE.md or LICENSE.txt that does not
match the declared license counts as unverified, so a custom license shipped
only under such a name fails the run. Its text is still written to the bundle.`

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Write the license texts of all dependencies into one file",
		Long:  bundleLong,
		Args:  cobra.NoArgs,
		RunE:  runBundle,
	}
	cmd.Flags().String("manifest", "", "Read packages from a YAML manifest")
	cmd.Flags().String("gomod", "", "Read packages from a go.mod file (default ./go.mod)")
	cmd.Flags().StringP("output", "o", "", "Write the bundle to a file instead of stdout")
	cmd.Flags().Float64("threshold", textmatch.DefaultThreshold, "Largest distance/length ratio that counts as a match")
	cmd.Flags().String("config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	cmd.Flags().String("cache", "", "SQLite file caching similarity scores between runs")
	cmd.Flags().String("report", "", "Write a per-package report to this file")
	cmd.Flags().String("report-format", "", "Report format: json or markdown (default from the file extension)")
	cmd.Flags().BoolP("interactive", "i", false, "Ask which file to use when several candidates tie")
	cmd.MarkFlagsMutuallyExclusive("manifest", "gomod")
	return cmd
}

func runBundle(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cli := config.CLIArgs{ConfigPath: stringFlag(cmd, "config")}
	cli.Threshold, _ = flags.GetFloat64("threshold")
	cli.ThresholdSet = flags.Changed("threshold")
	cli.Cache, cli.CacheSet = stringFlag(cmd, "cache"), flags.Changed("cache")
	cli.Output, cli.OutputSet = stringFlag(cmd, "output"), flags.Changed("output")
	cfg, err := config.LoadEffective(cwd, cli)
	if err != nil {
		return err
	}

	reportPath := stringFlag(cmd, "report")
	reportFormat, err := reportFormatFor(reportPath, stringFlag(cmd, "report-format"))
	if err != nil {
		return err
	}

	detector := license.NewDetector()
	provider, closeProvider := newProvider(cmd, detector)
	defer closeProvider()

	root, pkgs, err := provider.Packages(ctx)
	if err != nil {
		return fmt.Errorf("list packages: %w", err)
	}
	deps.ApplyOverrides(pkgs, cfg.Overrides)
	logrus.WithFields(logrus.Fields{"root": root.Name, "packages": len(pkgs)}).Debug("packages listed")

	matcher := textmatch.NewMatcher(cfg.Threshold)
	if cfg.Cache != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache), 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
		db, err := cache.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer db.Close()
		matcher.Cache = db
	}
	locator := locate.New(matcher)
	locator.GenericNames = cfg.GenericNames

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	tty := ui.IsTTY()
	interactive, _ := flags.GetBool("interactive")
	console := ui.NewConsole(os.Stderr, tty)

	report := model.Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Root:        root.Name,
		Output:      cfg.Output,
		Packages:    []model.PackageResult{},
	}
	b := &bundle.Bundler{
		Locator: locator,
		Sink:    console,
		Hint:    detector.Detect,
		Record: func(r model.PackageResult) {
			report.Packages = append(report.Packages, r)
		},
	}
	if interactive {
		b.Picker = ui.HuhPicker{}
	}

	var result model.Flags
	if tty && !interactive && len(pkgs) > 0 {
		// A bundle streamed to the same terminal would be painted over.
		hold := cfg.Output == "" && ui.IsStdoutTTY()
		result, err = runWithTUI(ctx, b, console, root, pkgs, out, hold)
	} else {
		b.Progress = ui.NewPlainProgress(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
		result, err = b.Run(ctx, root, pkgs, out)
	}
	if err != nil && !errors.Is(err, bundle.ErrBundleFailed) {
		return err
	}

	if f, ok := out.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil {
			return fmt.Errorf("close output: %w", cerr)
		}
	}

	if reportPath != "" {
		report.MissingLicense = result.MissingLicense
		report.LowQualityLicense = result.LowQualityLicense
		if werr := writeReport(reportPath, reportFormat, report); werr != nil {
			return werr
		}
	}
	return err
}

// runWithTUI runs the bundler while a progress bar is shown. Diagnostics
// are held back until the bar is gone, and so is the bundle itself when
// hold is set.
func runWithTUI(ctx context.Context, b *bundle.Bundler, console ui.Sink, root model.Package, pkgs []model.Package, out io.Writer, hold bool) (model.Flags, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out, release := holdOutput(out, hold)

	rec := &ui.Recorder{}
	b.Sink = rec
	program := ui.RunTUI(len(pkgs))
	b.Progress = ui.TUIProgress{Program: program}

	var (
		result model.Flags
		runErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, runErr = b.Run(ctx, root, pkgs, out)
		if runErr != nil && !errors.Is(runErr, bundle.ErrBundleFailed) {
			program.Quit()
		}
	}()

	if _, err := program.Run(); err != nil {
		logrus.WithError(err).Debug("progress display failed")
	} else {
		// The program only stops before the run is done on ctrl+c.
		cancel()
	}
	<-finished

	if err := release(); err != nil && (runErr == nil || errors.Is(runErr, bundle.ErrBundleFailed)) {
		runErr = fmt.Errorf("write bundle: %w", err)
	}
	rec.Flush(console)
	return result, runErr
}

// holdOutput returns the writer to bundle into and a release function that
// copies whatever was held back to out. Without hold, out is used directly.
func holdOutput(out io.Writer, hold bool) (io.Writer, func() error) {
	if !hold {
		return out, func() error { return nil }
	}
	var buf bytes.Buffer
	return &buf, func() error {
		_, err := buf.WriteTo(out)
		return err
	}
}

func newProvider(cmd *cobra.Command, detector *license.Detector) (deps.Provider, func()) {
	if path := stringFlag(cmd, "manifest"); path != "" {
		store := auth.NewFileStore(auth.DefaultStorePath())
		m := deps.NewManifest(path, fetch.NewCloner(store))
		return m, func() { m.Close() }
	}
	path := stringFlag(cmd, "gomod")
	if path == "" {
		path = "go.mod"
	}
	return deps.NewGoMod(path, detector.Declared), func() {}
}

func reportFormatFor(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return "json", nil
	case "markdown", "md":
		return "markdown", nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			return "markdown", nil
		default:
			return "json", nil
		}
	default:
		return "", fmt.Errorf("unsupported report format: %s (use json or markdown)", format)
	}
}

func writeReport(path, format string, report model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if format == "markdown" {
		err = output.WriteMarkdown(f, report)
	} else {
		err = output.WriteJSON(f, report)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
