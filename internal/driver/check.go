package driver

import (
	"fmt"
	"time"

	"fortio.org/safecast"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/dialect"
	"skarn/internal/lexer"
	"skarn/internal/observ"
	"skarn/internal/parser"
	"skarn/internal/project"
	"skarn/internal/sema"
	"skarn/internal/source"
)

// Stage определяет, до какого уровня гнать конвейер.
type Stage string

const (
	// StageParse останавливается после разбора объявлений.
	StageParse Stage = "parse"
	// StageAll прогоняет весь конвейер, включая проверку сигнатур.
	StageAll Stage = "all"
)

// Options configures CheckFile and CheckDir.
type Options struct {
	Stage            Stage
	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	// Jobs bounds CheckDir worker parallelism; 0 picks GOMAXPROCS.
	Jobs int
	// Cache replays diagnostics for files whose content hash is already
	// stored. Only CheckDir consults it; nil disables caching.
	Cache *DiskCache
	// Observer receives per-file progress events from CheckDir.
	Observer Observer
}

// Result holds everything one checked file produced.
type Result struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	ASTFile ast.FileID
	Builder *ast.Builder
	Sema    *sema.Result
	Bag     *diag.Bag
	// Cached marks results replayed from the disk cache; Builder and
	// Sema are nil for those.
	Cached bool
	Timing *observ.Report
}

func (o *Options) normalized() Options {
	opts := *o
	if opts.Stage == "" {
		opts.Stage = StageAll
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = project.DefaultMaxDiagnostics
	}
	return opts
}

// CheckFile runs the pipeline over a single file on disk.
func CheckFile(path string, opts Options) (*Result, error) {
	opts = opts.normalized()

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}

	fs := source.NewFileSet()
	loadStart := time.Now()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if timer != nil {
		timer.Add("load", time.Since(loadStart))
	}
	file := fs.Get(fileID)

	res := checkLoadedFile(fs, file, nil, opts, timer)
	res.Path = path
	finishBag(res.Bag, opts)

	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "file",
			Path:    file.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	return res, nil
}

// checkLoadedFile гонит уже загруженный файл через lex+parse и sema.
// interner может быть общим на несколько файлов (он потокобезопасен);
// арены типов и символов у каждого файла свои.
func checkLoadedFile(fs *source.FileSet, file *source.File, interner *source.Interner, opts Options, timer *observ.Timer) *Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	res := &Result{
		FileSet: fs,
		FileID:  file.ID,
		Bag:     bag,
	}

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}

	parseStart := time.Now()
	builder := ast.NewBuilder(ast.Hints{}, interner)
	evidence := dialect.NewEvidence()
	lx := lexer.New(file, lexer.Options{Reporter: reporter, DialectEvidence: evidence})
	parsed := parser.ParseFile(fs, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})
	if timer != nil {
		timer.Add("parse", time.Since(parseStart))
	}
	res.Builder = builder
	res.ASTFile = parsed.File

	if opts.Stage == StageParse {
		emitDialectHint(bag, evidence)
		return res
	}

	semaStart := time.Now()
	semaRes := sema.Check(builder, parsed.File, sema.Options{
		Reporter:   reporter,
		SourceFile: file.ID,
	})
	if timer != nil {
		timer.Add("sema", time.Since(semaStart))
	}
	res.Sema = &semaRes
	emitDialectHint(bag, evidence)
	return res
}

// finishBag применяет фильтры severity и сортирует диагностики.
func finishBag(bag *diag.Bag, opts Options) {
	if bag == nil {
		return
	}
	if opts.IgnoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity == diag.SevError
		})
	}
	if opts.WarningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
	bag.Sort()
}

func countErrors(bag *diag.Bag) int {
	if bag == nil {
		return 0
	}
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
