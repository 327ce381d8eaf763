package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"skarn/internal/driver"
	"skarn/internal/source"
	"skarn/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.Result
	err     error
}

// runCheckDirWithUI мостит события Observer в канал для Bubble Tea и
// ждёт обе стороны: конвейер и интерфейс.
func runCheckDirWithUI(ctx context.Context, dir string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	files, err := driver.ListSkFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observer = func(e driver.Event) { events <- e }
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
