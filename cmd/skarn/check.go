package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skarn/internal/diag"
	"skarn/internal/diagfmt"
	"skarn/internal/driver"
	"skarn/internal/project"
	"skarn/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.sk|directory]",
	Short: "Check skarn sources and report diagnostics",
	Long: `Check runs the lexer, parser and signature checker over a skarn source
file or over every *.sk file under a directory. Without an argument it
checks the project the current directory belongs to (found via skarn.toml).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

// init registers CLI flags for the check command used by runCheck.
// It configures output format, pipeline depth, warning handling,
// concurrency, note/suggestion inclusion and the progress UI.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().String("stage", "all", "how far to run the pipeline (parse|all)")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory checking (0 = manifest value or auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show fix previews next to suggestions")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "replay unchanged files from the disk cache")
	checkCmd.Flags().String("progress", "auto", "per-file progress UI for directories (auto|on|off)")
}

type checkFlags struct {
	format           string
	stage            driver.Stage
	maxDiagnostics   int
	showTimings      bool
	quiet            bool
	noWarnings       bool
	warningsAsErrors bool
	jobs             int
	withNotes        bool
	suggest          bool
	preview          bool
	fullPath         bool
	diskCache        bool
	progress         uiMode
	useColor         bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var flags checkFlags

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return flags, fmt.Errorf("failed to get format flag: %w", err)
	}
	flags.format = format

	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return flags, fmt.Errorf("failed to get stage flag: %w", err)
	}
	switch stageStr {
	case "parse":
		flags.stage = driver.StageParse
	case "all":
		flags.stage = driver.StageAll
	default:
		return flags, fmt.Errorf("unknown stage value: %s", stageStr)
	}

	flags.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return flags, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	flags.showTimings, err = cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return flags, fmt.Errorf("failed to get timings flag: %w", err)
	}

	flags.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return flags, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	flags.noWarnings, err = cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return flags, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}

	flags.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return flags, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	flags.jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return flags, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	flags.withNotes, err = cmd.Flags().GetBool("with-notes")
	if err != nil {
		return flags, fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	flags.suggest, err = cmd.Flags().GetBool("suggest")
	if err != nil {
		return flags, fmt.Errorf("failed to get suggest flag: %w", err)
	}

	flags.preview, err = cmd.Flags().GetBool("preview")
	if err != nil {
		return flags, fmt.Errorf("failed to get preview flag: %w", err)
	}

	flags.fullPath, err = cmd.Flags().GetBool("fullpath")
	if err != nil {
		return flags, fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	flags.diskCache, err = cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return flags, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}

	progressStr, err := cmd.Flags().GetString("progress")
	if err != nil {
		return flags, fmt.Errorf("failed to get progress flag: %w", err)
	}
	flags.progress, err = readUIMode(progressStr)
	if err != nil {
		return flags, err
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return flags, fmt.Errorf("failed to get color flag: %w", err)
	}
	flags.useColor = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	return flags, nil
}

// runCheck executes the "check" command: it resolves the target from the
// argument or the enclosing project, runs the pipeline and renders the
// collected diagnostics in the chosen format. The process exits non-zero
// when any diagnostic carries error severity.
func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	if flags.noWarnings && flags.warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	target, manifest, err := resolveCheckTarget(args)
	if err != nil {
		return err
	}

	// Манифест даёт значения по умолчанию, явные флаги важнее.
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

	opts := driver.Options{
		Stage:            flags.stage,
		MaxDiagnostics:   flags.maxDiagnostics,
		IgnoreWarnings:   flags.noWarnings,
		WarningsAsErrors: flags.warningsAsErrors,
		EnableTimings:    flags.showTimings,
		Jobs:             flags.jobs,
	}
	if flags.diskCache {
		cache, cacheErr := driver.OpenDiskCache("skarn")
		if cacheErr != nil {
			return fmt.Errorf("failed to open disk cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var exitCode int
	if st.IsDir() {
		exitCode, err = runCheckDir(cmd, target, opts, flags)
	} else {
		exitCode, err = runCheckFile(cmd, target, opts, flags)
	}
	if err != nil {
		return err
	}
	if exitCode != 0 {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // диагностики уже напечатаны
	}
	return nil
}

// resolveCheckTarget picks what to check: the explicit argument when
// given, otherwise the root of the enclosing project.
func resolveCheckTarget(args []string) (string, *project.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	manifest, found, err := project.LoadManifest(wd)
	if err != nil {
		return "", nil, err
	}
	if !found {
		manifest = nil
	}
	if len(args) == 1 && args[0] != "" {
		return args[0], manifest, nil
	}
	if manifest == nil {
		return "", nil, fmt.Errorf("nothing to check: pass a file or directory, or run inside a skarn project")
	}
	return manifest.Root, manifest, nil
}

func (f checkFlags) prettyOpts() diagfmt.PrettyOpts {
	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return diagfmt.PrettyOpts{
		Color:       f.useColor,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   f.withNotes,
		ShowFixes:   f.suggest || f.preview,
		ShowPreview: f.preview,
	}
}

func (f checkFlags) jsonOpts() diagfmt.JSONOpts {
	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     f.withNotes,
		IncludeFixes:     f.suggest || f.preview,
		IncludePreviews:  f.preview,
	}
}

func runCheckFile(cmd *cobra.Command, path string, opts driver.Options, flags checkFlags) (int, error) {
	result, err := driver.CheckFile(path, opts)
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}

	exit := 0
	if result.Bag.HasErrors() {
		exit = 1
	}

	switch flags.format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, flags.prettyOpts())
	case "short":
		if err := diagfmt.Short(os.Stdout, result.Bag, result.FileSet, flags.withNotes); err != nil {
			return 0, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, flags.jsonOpts()); err != nil {
			return 0, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown format: %s", flags.format)
	}

	if flags.showTimings && !flags.quiet && result.Timing != nil {
		fmt.Fprint(os.Stderr, result.Timing.Summary())
	}
	return exit, nil
}

func runCheckDir(cmd *cobra.Command, dir string, opts driver.Options, flags checkFlags) (int, error) {
	var (
		fs      *source.FileSet
		results []driver.Result
		err     error
	)
	// Интерактивный прогресс несовместим с машинными форматами.
	if flags.format == "pretty" && !flags.quiet && shouldUseTUI(flags.progress) {
		fs, results, err = runCheckDirWithUI(cmd.Context(), dir, opts)
	} else {
		fs, results, err = driver.CheckDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}

	exit := 0
	for _, r := range results {
		if r.Bag.HasErrors() {
			exit = 1
			break
		}
	}

	switch flags.format {
	case "short":
		all := make([]diag.Diagnostic, 0, len(results))
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		output := diag.FormatShortDiagnostics(all, fs, flags.withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "pretty":
		prettyOpts := flags.prettyOpts()
		first := true
		for _, r := range results {
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(os.Stdout)
			}
			first = false
			fmt.Fprintf(os.Stdout, "== %s ==\n", displayResultPath(r, fs, flags.fullPath))
			diagfmt.Pretty(os.Stdout, r.Bag, fs, prettyOpts)
		}
	case "json":
		jsonOpts := flags.jsonOpts()
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[displayResultPath(r, fs, flags.fullPath)] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown format: %s", flags.format)
	}

	if flags.showTimings && !flags.quiet {
		if report := driver.AggregateTimings(results); report != nil {
			fmt.Fprint(os.Stderr, report.Summary())
		}
	}
	return exit, nil
}

// displayResultPath renders the path the way the formatters would, so
// headers and span locations agree.
func displayResultPath(r driver.Result, fs *source.FileSet, fullPath bool) string {
	mode := "auto"
	if fullPath {
		mode = "absolute"
	}
	if file, ok := fs.GetByPath(r.Path); ok {
		return file.FormatPath(mode, fs.BaseDir())
	}
	// Файл не загрузился; показываем путь как есть.
	if fullPath {
		if abs, err := source.AbsolutePath(r.Path); err == nil {
			return abs
		}
	}
	return r.Path
}
