package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"issuedesk/internal/config"
	"issuedesk/internal/debug"
	"issuedesk/internal/metrics"
	"issuedesk/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run a local issue backend",
		UsageText: "issuedesk serve [--addr :8000] [--db issues.db] [--seed]",
		Description: `Serves the issue REST API from a SQLite database. Without --db the
data lives in memory and is lost on exit. Prometheus metrics are exposed
on /metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address", Value: ":8000"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database file (empty for in-memory)"},
			&cli.BoolFlag{Name: "seed", Usage: "load sample issues into an empty database", Value: true},
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)", Value: "info"},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if err := setup(cmd); err != nil {
		return err
	}
	defer debug.Close()

	logger := newServerLogger(config.GetString(config.KeyLogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := config.GetString(config.KeyServerDatabase)
	store, err := server.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	if path == "" {
		logger.Warn().Msg("no database file configured, issues are kept in memory")
	}

	if config.GetBool(config.KeyServerSeed) {
		if err := server.Seed(ctx, store); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}
	if err := metrics.RegisterServer(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	return server.New(store, logger).ListenAndServe(ctx, config.GetString(config.KeyServerAddr), nil)
}

// newServerLogger writes JSON logs to stderr. Unknown levels fall back
// to info.
func newServerLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
