package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"playscript/internal/buildpipeline"
	"playscript/internal/driver"
	"playscript/internal/source"
	"playscript/internal/ui"
)

type checkOutcome struct {
	fileSet *source.FileSet
	results []driver.CheckDirResult
	err     error
}

// checkDirWithUI runs driver.CheckDir while a progress view renders its
// events. The view quits when the check closes the event channel.
func checkDirWithUI(ctx context.Context, title string, files []string, dir string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckDirResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = buildpipeline.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, buildpipeline.StageDiagnose, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// keep the producer from blocking if the view quit early
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
