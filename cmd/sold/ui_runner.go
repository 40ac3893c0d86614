package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sold/internal/build"
	"sold/internal/solc"
	"sold/internal/tvmasm"
	"sold/internal/ui"
)

type buildOutcome struct {
	result build.Result
	err    error
}

func runBuildWithUI(ctx context.Context, title string, compiler solc.Compiler, engine tvmasm.Engine, req *build.Request) (build.Result, error) {
	if req == nil {
		return build.Result{}, fmt.Errorf("missing build request")
	}
	events := make(chan build.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	// The model owns stdout while the program runs; the success line is
	// dropped and diagnostics are held back until the screen is released.
	var diagnostics bytes.Buffer
	go func() {
		reqCopy := *req
		reqCopy.Progress = build.ChannelSink{Ch: events}
		reqCopy.Quiet = true
		reqCopy.Stderr = &diagnostics
		res, err := build.Run(ctx, compiler, engine, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Stages(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if diagnostics.Len() > 0 {
		_, _ = os.Stderr.Write(diagnostics.Bytes())
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
