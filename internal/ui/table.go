package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"issuedesk/internal/domain"
)

const (
	colIDWidth       = 8
	colStatusWidth   = 11
	colPriorityWidth = 8
	colAssigneeWidth = 12
	colUpdatedWidth  = 8
	minTitleWidth    = 12
	// cellPadding is the horizontal padding bubbles/table adds per cell.
	cellPadding = 2
)

func newIssueTable() table.Model {
	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cGray).
		BorderBottom(true).
		Foreground(cField).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(cWhite).
		Background(cHighlight).
		Bold(true)
	t.SetStyles(styles)
	return t
}

// tableColumns sizes the columns for width cells. Title takes whatever
// the fixed columns leave.
func tableColumns(width int) []table.Column {
	fixed := colIDWidth + colStatusWidth + colPriorityWidth + colAssigneeWidth + colUpdatedWidth
	title := max(width-fixed-6*cellPadding, minTitleWidth)
	return []table.Column{
		{Title: "ID", Width: colIDWidth},
		{Title: "Title", Width: title},
		{Title: "Status", Width: colStatusWidth},
		{Title: "Priority", Width: colPriorityWidth},
		{Title: "Assignee", Width: colAssigneeWidth},
		{Title: "Updated", Width: colUpdatedWidth},
	}
}

func issueRows(issues []domain.Issue, cols []table.Column) []table.Row {
	rows := make([]table.Row, len(issues))
	for i, issue := range issues {
		assignee := issue.AssigneeName()
		if assignee == "" {
			assignee = "-"
		}
		cells := []string{
			shortID(issue.ID),
			issue.Title,
			issue.Status.Label(),
			issue.Priority.Label(),
			assignee,
			FormatRelativeTime(issue.UpdatedAt),
		}
		for c := range cells {
			if c < len(cols) {
				cells[c] = ansi.Truncate(cells[c], cols[c].Width, "…")
			}
		}
		rows[i] = cells
	}
	return rows
}

func shortID(id string) string {
	if len(id) <= colIDWidth {
		return id
	}
	return id[:colIDWidth]
}
