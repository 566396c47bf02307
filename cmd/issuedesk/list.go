package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"issuedesk/internal/debug"
	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Print one page of issues",
		UsageText: "issuedesk list [--search text] [--status s] [--priority p] [--page n] [--format table|json|yaml]",
		Description: `Runs the same query the interactive list would run for the given
filters and prints the result. Useful for scripts and non-interactive shells.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "case-insensitive title search"},
			&cli.StringFlag{Name: "status", Usage: "open, in-progress or closed"},
			&cli.StringFlag{Name: "priority", Usage: "low, medium, high or critical"},
			&cli.IntFlag{Name: "page", Usage: "1-based page number", Value: 1},
			&cli.StringFlag{Name: "format", Usage: "output format (table, json, yaml)", Value: "table"},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	if err := setup(cmd); err != nil {
		return err
	}
	defer debug.Close()

	status, err := domain.ParseStatus(cmd.String("status"))
	if err != nil {
		return err
	}
	priority, err := domain.ParsePriority(cmd.String("priority"))
	if err != nil {
		return err
	}

	state := initialSignals()
	state.SearchText = cmd.String("search")
	state.Status = status
	state.Priority = priority
	state.Page.Index = max(int(cmd.Int("page"))-1, 0)

	list, err := newClient().List(ctx, listview.BuildQuery(state, cmd.String("assignee")))
	if err != nil {
		return err
	}
	return writeIssues(commandWriter(cmd), cmd.String("format"), list)
}

func commandWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// issueRecord is the serialized form of an issue for json and yaml
// output.
type issueRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string    `json:"status" yaml:"status"`
	Priority    string    `json:"priority" yaml:"priority"`
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func toRecords(list []domain.Issue) []issueRecord {
	out := make([]issueRecord, len(list))
	for i, issue := range list {
		out[i] = issueRecord{
			ID:          issue.ID,
			Title:       issue.Title,
			Description: issue.DescriptionText(),
			Status:      string(issue.Status),
			Priority:    string(issue.Priority),
			Assignee:    issue.AssigneeName(),
			CreatedAt:   issue.CreatedAt,
			UpdatedAt:   issue.UpdatedAt,
		}
	}
	return out
}

func writeIssues(w io.Writer, format string, list []domain.Issue) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toRecords(list))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toRecords(list)); err != nil {
			return err
		}
		return enc.Close()
	case "", "table":
		if len(list) == 0 {
			_, err := fmt.Fprintln(w, "No issues found.")
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "UPDATED")
		for _, issue := range list {
			assignee := issue.AssigneeName()
			if assignee == "" {
				assignee = "-"
			}
			t.Row(issue.ID, issue.Title, string(issue.Status), string(issue.Priority), assignee,
				issue.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}
