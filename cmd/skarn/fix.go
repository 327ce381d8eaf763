package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skarn/internal/diag"
	"skarn/internal/driver"
	"skarn/internal/fix"
	"skarn/internal/project"
	"skarn/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.sk|directory]",
	Short: "Apply the fixes suggested by diagnostics",
	Long: `Fix runs the same pipeline as check, collects the edits the diagnostics
suggest and writes them back into the source files. By default only the
first applicable fix is applied; pass --all to apply every fix that does
not conflict with an earlier one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every fix that does not conflict")
	fixCmd.Flags().Bool("once", false, "apply only the first applicable fix (default)")
	fixCmd.Flags().Bool("dry-run", false, "report the fixes without writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory checking (0 = manifest value or auto)")
}

type fixFlags struct {
	all            bool
	once           bool
	dryRun         bool
	jobs           int
	maxDiagnostics int
	quiet          bool
}

func readFixFlags(cmd *cobra.Command) (fixFlags, error) {
	var flags fixFlags
	var err error

	flags.all, err = cmd.Flags().GetBool("all")
	if err != nil {
		return flags, fmt.Errorf("failed to get all flag: %w", err)
	}

	flags.once, err = cmd.Flags().GetBool("once")
	if err != nil {
		return flags, fmt.Errorf("failed to get once flag: %w", err)
	}

	flags.dryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return flags, fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	flags.jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return flags, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	flags.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return flags, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	flags.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return flags, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	return flags, nil
}

// runFix checks the target, feeds the collected diagnostics into the
// fix engine and reports what changed. Fixes are applied only to what
// the current run produced; no disk cache is involved, так что правки
// никогда не опираются на устаревшие диагностики.
func runFix(cmd *cobra.Command, args []string) error {
	flags, err := readFixFlags(cmd)
	if err != nil {
		return err
	}
	if flags.all && flags.once {
		return fmt.Errorf("all and once flags cannot be used together")
	}

	target, manifest, err := resolveCheckTarget(args)
	if err != nil {
		return err
	}
	if flags.maxDiagnostics <= 0 {
		if manifest != nil {
			flags.maxDiagnostics = manifest.Config.Check.MaxDiagnostics
		} else {
			flags.maxDiagnostics = project.DefaultMaxDiagnostics
		}
	}
	if flags.jobs <= 0 && manifest != nil {
		flags.jobs = manifest.Config.Check.Jobs
	}

	// Fixes live on sema diagnostics, so the pipeline always runs in full.
	opts := driver.Options{
		Stage:          driver.StageAll,
		MaxDiagnostics: flags.maxDiagnostics,
		Jobs:           flags.jobs,
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fileSet     *source.FileSet
		diagnostics []diag.Diagnostic
	)
	if st.IsDir() {
		fs, results, dirErr := driver.CheckDir(cmd.Context(), target, opts)
		if dirErr != nil {
			return fmt.Errorf("check failed: %w", dirErr)
		}
		fileSet = fs
		for _, r := range results {
			diagnostics = append(diagnostics, r.Bag.Items()...)
		}
	} else {
		result, fileErr := driver.CheckFile(target, opts)
		if fileErr != nil {
			return fmt.Errorf("check failed: %w", fileErr)
		}
		fileSet = result.FileSet
		diagnostics = result.Bag.Items()
	}

	mode := fix.ApplyModeOnce
	if flags.all {
		mode = fix.ApplyModeAll
	}
	res, err := fix.Apply(fileSet, diagnostics, fix.ApplyOptions{Mode: mode, DryRun: flags.dryRun})
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(os.Stdout, "No applicable fixes found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply fixes: %w", err)
	}

	handleApplyResult(res, flags)
	return nil
}

// handleApplyResult renders the outcome of a fix run.
func handleApplyResult(res *fix.ApplyResult, flags fixFlags) {
	if flags.dryRun && len(res.Applied) > 0 {
		fmt.Fprintln(os.Stdout, "Dry run: no files were written.")
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		for _, a := range res.Applied {
			fmt.Fprintf(os.Stdout, "  - %s [%s] %s\n", a.Title, a.Code.ID(), a.Path)
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(os.Stdout, "Updated files:")
		for _, c := range res.FileChanges {
			fmt.Fprintf(os.Stdout, "  - %s (%d edit(s))\n", c.Path, c.EditCount)
		}
	}
	if len(res.Skipped) > 0 && !flags.quiet {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, s := range res.Skipped {
			fmt.Fprintf(os.Stdout, "  - %s: %s\n", s.Title, s.Reason)
		}
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(os.Stdout, "No applicable fixes found.")
	}
}
