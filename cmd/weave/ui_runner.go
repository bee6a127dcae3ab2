package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"weave/internal/driver"
	"weave/internal/pipeline"
	"weave/internal/ui"
)

type renderOutcome struct {
	results []driver.RenderResult
	err     error
}

// runRenderWithUI renders paths while a progress view follows the pipeline
// events on stderr.
func runRenderWithUI(ctx context.Context, title string, paths []string, opts driver.RenderOptions) ([]driver.RenderResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan renderOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.RenderPaths(ctx, paths, optsCopy)
		outcomeCh <- renderOutcome{results: res, err: err}
		close(events)
	}()

	names := pipeline.DisplayNames(paths, opts.BaseDir)
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
