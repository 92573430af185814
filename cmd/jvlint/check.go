package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jvlint/internal/diag"
	"jvlint/internal/diagfmt"
	"jvlint/internal/driver"
	"jvlint/internal/observ"
	"jvlint/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.class|file.jar|directory>",
	Short: "Lint compiled class files",
	Long:  `Check parses the given class files, jars or directory trees and reports bytecode-level lint findings`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

// init registers CLI flags for the check command used by runCheck.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for per-class results")
	checkCmd.Flags().StringSlice("disable", nil, "rule names to disable")
}

func runCheck(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	disabled, err := cmd.Flags().GetStringSlice("disable")
	if err != nil {
		return fmt.Errorf("failed to get disable flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "sarif":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or sarif)", format)
	}

	// Манифест проекта даёт значения по умолчанию, флаги их перекрывают.
	if manifest, ok, err := loadProjectManifest("."); err != nil {
		return err
	} else if ok {
		if jobs == 0 && manifest.Config.Lint.Jobs > 0 {
			jobs = manifest.Config.Lint.Jobs
		}
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && manifest.Config.Lint.MaxDiagnostics > 0 {
			maxDiagnostics = manifest.Config.Lint.MaxDiagnostics
		}
		if !cmd.Flags().Changed("format") && manifest.Config.Lint.Format != "" {
			format = manifest.Config.Lint.Format
		}
		disabled = append(disabled, manifest.Config.Rules.Disabled...)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		DisabledRules:  disabled,
	}
	if useDiskCache {
		cache, err := driver.OpenDiskCache("jvlint")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	timer := observ.NewTimer()
	phase := timer.Begin("check")

	fileSet, results, err := driver.CheckPath(cmd.Context(), inputPath, opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	merged := diag.NewBag(len(results)*maxDiagnostics + 1)
	cached := 0
	for _, r := range results {
		merged.Merge(r.Bag)
		if r.FromCache {
			cached++
		}
	}
	merged.Sort()

	timer.End(phase, len(results)-cached, cached)

	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, fileSet); err != nil {
			return err
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{ToolName: "jvlint", ToolVersion: version.Version}
		if err := diagfmt.Sarif(os.Stdout, merged, fileSet, meta); err != nil {
			return err
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor(colorMode, os.Stdout),
			FullPath:  fullPath,
			WithNotes: withNotes,
		}
		diagfmt.Pretty(os.Stdout, merged, fileSet, prettyOpts)
		if !quiet && merged.Len() == 0 {
			fmt.Fprintf(os.Stdout, "checked %d classes, no findings\n", len(results))
		}
	}

	if showTimings {
		fmt.Fprintln(os.Stderr, timer.Summary())
	}

	if merged.HasErrors() || merged.HasWarnings() {
		// Suppress cobra usage output on lint findings
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}
