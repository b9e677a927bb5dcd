package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rosgen/internal/buildpipeline"
	"rosgen/internal/driver"
	"rosgen/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type runFunc func(context.Context, driver.Request) (*driver.Result, error)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithProgress calls run directly, or behind the progress view when the
// UI is enabled. Quiet and machine-readable output never show the view.
func runWithProgress(cmd *cobra.Command, title string, req driver.Request, run runFunc) (*driver.Result, error) {
	modeStr, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(modeStr)
	if err != nil {
		return nil, err
	}
	o, err := readOutputOptions(cmd)
	if err != nil {
		return nil, err
	}
	if o.quiet || o.machineReadable() || !shouldUseTUI(mode) {
		return run(cmd.Context(), req)
	}

	var files []string
	for _, p := range req.Packages {
		files = append(files, p.Files...)
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := run(cmd.Context(), reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, buildpipeline.DisplayFiles(files, req.BaseDir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	// после ctrl+c или падения вьюшки генератор должен дописать: сливаем события
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		current.log.Sugar().Warnf("progress view failed: %v", uiErr)
	}
	return outcome.result, outcome.err
}
