package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"issuedesk/internal/config"
	"issuedesk/internal/debug"
	"issuedesk/internal/issues"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps command-line flags to the config keys they override.
// A flag only wins over config when it was set explicitly.
var flagKeys = map[string]string{
	"api-url":       config.KeyAPIURL,
	"api-timeout":   config.KeyAPITimeout,
	"debug":         config.KeyDebug,
	"output-format": config.KeyOutputFormat,
	"page-size":     config.KeyListPageSize,
	"sort-by":       config.KeyListSortBy,
	"sort-order":    config.KeyListSortOrder,
	"addr":          config.KeyServerAddr,
	"db":            config.KeyServerDatabase,
	"seed":          config.KeyServerSeed,
	"log-level":     config.KeyLogLevel,
	"metrics-addr":  config.KeyMetricsAddr,
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "issuedesk",
		Usage:     "Browse and edit issues from the terminal",
		UsageText: "issuedesk [global options] [command [command options]]",
		Description: `Run 'issuedesk' with no command to open the interactive issue list.
Run 'issuedesk serve' to start a local issue backend backed by SQLite.`,
		Version: buildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "base URL of the issue backend",
				Value: config.DefaultAPIURL,
			},
			&cli.DurationFlag{
				Name:  "api-timeout",
				Usage: "per-request timeout for backend calls",
				Value: config.DefaultAPITimeout,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write a debug log to ~/.issuedesk/debug.log",
			},
			&cli.StringFlag{
				Name:  "output-format",
				Usage: "detail panel markdown style (rich, dark, light, plain)",
				Value: "rich",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "issues per page",
				Value: config.DefaultPageSize,
			},
			&cli.StringFlag{
				Name:  "sort-by",
				Usage: "initial sort column (updatedAt, createdAt, title, status, priority, assignee)",
				Value: config.DefaultSortBy,
			},
			&cli.StringFlag{
				Name:  "sort-order",
				Usage: "initial sort direction (asc, desc)",
				Value: config.DefaultSortOrder,
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve list fetch metrics on this address (e.g. 127.0.0.1:9100)",
			},
			&cli.StringFlag{
				Name:  "assignee",
				Usage: "only show issues assigned to this person",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			listCommand(),
			serveCommand(),
		},
	}
}

// setup loads configuration, applies explicit flags on top of it and
// starts debug logging. Callers must defer debug.Close.
func setup(cmd *cli.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.Value(flag)
		}
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}
	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		return fmt.Errorf("initialize debug log: %w", err)
	}
	return nil
}

func newClient() *issues.HTTPClient {
	return issues.NewHTTPClient(config.GetString(config.KeyAPIURL), config.GetDuration(config.KeyAPITimeout))
}
