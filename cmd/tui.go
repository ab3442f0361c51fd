package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist browsing and export.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	format := cmd.String("format")
	outputDir := cmd.String("output")

	if query == "" {
		return fmt.Errorf("%w: a search query is required to seed the playlist browser", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	if format == "" {
		format = r.config.Export.Format
	}
	if outputDir == "" {
		outputDir = r.config.Export.OutputDir
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/spotx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.catalog, r.engine, query, format, outputDir)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
