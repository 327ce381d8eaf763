package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"skarn/internal/diag"
	"skarn/internal/observ"
	"skarn/internal/source"
)

// ListSkFiles возвращает отсортированный список всех *.sk файлов в директории.
// Тот же список в том же порядке видит CheckDir.
func ListSkFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sk") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every *.sk file under dir, in parallel. Results come
// back in sorted path order regardless of which worker finished first.
// The FileSet and the string interner are shared; type and symbol
// arenas stay per-file, so files cannot observe each other's names.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []Result, error) {
	opts = opts.normalized()

	files, err := ListSkFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	// Предзагружаем все файлы: воркеры читают FileSet без блокировок.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		fileID, loadErr := fileSet.Load(path)
		if loadErr != nil {
			loadErrors[path] = loadErr
			continue
		}
		fileIDs[path] = fileID
	}

	interner := source.NewInterner()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				opts.Observer.emit(Event{
					Kind:  EventFileStart,
					Path:  path,
					Index: i,
					Total: len(files),
				})
				started := time.Now()

				if loadErr, hadError := loadErrors[path]; hadError {
					bag := diag.NewBag(opts.MaxDiagnostics)
					bag.Add(diag.New(
						diag.SevError,
						diag.IOLoadFileError,
						source.Span{},
						"failed to load file: "+loadErr.Error(),
					))
					results[i] = Result{Path: path, FileSet: fileSet, Bag: bag}
					opts.Observer.emit(Event{
						Kind:    EventFileDone,
						Path:    path,
						Index:   i,
						Total:   len(files),
						Errors:  1,
						Elapsed: time.Since(started),
					})
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				if res, ok := replayFromCache(opts.Cache, fileSet, file, opts); ok {
					res.Path = path
					results[i] = *res
					opts.Observer.emit(Event{
						Kind:    EventFileDone,
						Path:    path,
						Index:   i,
						Total:   len(files),
						Errors:  countErrors(res.Bag),
						Cached:  true,
						Elapsed: time.Since(started),
					})
					return nil
				}

				var timer *observ.Timer
				if opts.EnableTimings {
					timer = observ.NewTimer()
				}

				res := checkLoadedFile(fileSet, file, interner, opts, timer)
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

				storeInCache(opts.Cache, file, opts, res.Bag)
				results[i] = *res

				opts.Observer.emit(Event{
					Kind:    EventFileDone,
					Path:    path,
					Index:   i,
					Total:   len(files),
					Errors:  countErrors(res.Bag),
					Elapsed: time.Since(started),
				})
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}

// AggregateTimings folds per-file phase reports into one timer so a
// directory run prints a single timings block.
func AggregateTimings(results []Result) *observ.Report {
	timer := observ.NewTimer()
	seen := false
	for i := range results {
		if results[i].Timing == nil {
			continue
		}
		seen = true
		for _, phase := range results[i].Timing.Phases {
			timer.Add(phase.Name, time.Duration(phase.DurationMS*float64(time.Millisecond)))
		}
	}
	if !seen {
		return nil
	}
	report := timer.Report()
	return &report
}
