package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"issuedesk/internal/config"
	"issuedesk/internal/debug"
	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
	"issuedesk/internal/listview"
	"issuedesk/internal/ui"
)

var errNotTerminal = errors.New("the issue list needs an interactive terminal; use 'issuedesk list' for plain output")

// isTerminal is swapped out in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runTUI(ctx context.Context, cmd *cli.Command) error {
	if err := setup(cmd); err != nil {
		return err
	}
	defer debug.Close()

	if !isTerminal() {
		return errNotTerminal
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if addr := strings.TrimSpace(config.GetString(config.KeyMetricsAddr)); addr != "" {
		bound, err := serveClientMetrics(ctx, addr)
		if err != nil {
			return err
		}
		debug.Logf("metrics listening on %s", bound)
	}

	client := newClient()
	return runPipeline(ctx, client, initialSignals(), cmd.String("assignee"), func(app *ui.App) programRunner {
		return tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	})
}

// runPipeline starts the list pipeline, runs the program over it and
// stops the pipeline once the program exits.
func runPipeline(ctx context.Context, client issues.Client, initial listview.SignalState, assignee string, factory programFactory) error {
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pipeline := listview.New(client, listview.Options{
		Initial:  initial,
		Debounce: config.GetDuration(config.KeyListSearchDebounce),
		Assignee: strings.TrimSpace(assignee),
		Logger:   debug.Logger(),
	})
	app, err := ui.NewApp(ui.Config{
		Pipeline:     pipeline,
		Context:      ctx,
		Version:      Version,
		APIURL:       config.GetString(config.KeyAPIURL),
		OutputFormat: strings.TrimSpace(config.GetString(config.KeyOutputFormat)),
	})
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- pipeline.Run(ctx) }()

	prog := factory(app)
	if prog == nil {
		cancel()
		<-done
		return fmt.Errorf("program is nil")
	}
	_, runErr := prog.Run()
	cancel()
	logger := debug.Logger()
	if err := <-done; err != nil {
		logger.Warn().Err(err).Msg("pipeline stopped with error")
	}
	stats := pipeline.Executor.Stats()
	logger.Info().
		Int64("issued", stats.Issued).
		Int64("applied", stats.Applied).
		Int64("discarded", stats.Discarded).
		Int64("failed", stats.Failed).
		Msg("list fetch totals")
	if runErr != nil {
		return fmt.Errorf("run UI: %w", runErr)
	}
	return nil
}

// initialSignals builds the starting list inputs from configuration.
// Unknown sort columns fall back to the default.
func initialSignals() listview.SignalState {
	state := listview.DefaultSignalState()
	if col := config.GetString(config.KeyListSortBy); domain.IsSortColumn(col) {
		state.Sort.Column = col
	}
	state.Sort.Direction = domain.ParseSortDirection(config.GetString(config.KeyListSortOrder))
	if size := config.GetInt(config.KeyListPageSize); size > 0 {
		state.Page.Size = size
	}
	return state
}
