package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"issuedesk/internal/domain"
)

// renderDetailContent renders the drawer body for issue at width cells.
func (m *App) renderDetailContent(issue domain.Issue, width int) string {
	width = max(width, 1)

	headerWidth := max(width-styleDetailHeaderBlock.GetHorizontalFrameSize(), 1)
	header := styleID.Background(cHighlight).Render(shortID(issue.ID)) + " " + issue.Title
	headerBlock := styleDetailHeaderBlock.Width(width).Render(ansi.Truncate(header, headerWidth, "…"))

	makeRow := func(k, v string) string {
		return lipgloss.JoinHorizontal(lipgloss.Left, styleField.Render(k), v)
	}
	assignee := issue.AssigneeName()
	if assignee == "" {
		assignee = "unassigned"
	}
	meta := []string{
		makeRow("ID:", styleVal.Render(issue.ID)),
		makeRow("Status:", statusStyle(string(issue.Status)).Render(issue.Status.Label())),
		makeRow("Priority:", priorityStyle(string(issue.Priority)).Render(issue.Priority.Label())),
		makeRow("Assignee:", styleVal.Render(assignee)),
		makeRow("Created:", styleVal.Render(formatTimestamp(issue.CreatedAt))),
		makeRow("Updated:", styleVal.Render(formatTimestamp(issue.UpdatedAt))),
	}

	description := strings.TrimSpace(issue.DescriptionText())
	var body string
	if description == "" {
		body = styleStatsDim.Render(" No description.")
	} else {
		body = m.renderMarkdown(description, max(width-2, 10))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerBlock,
		"",
		strings.Join(meta, "\n"),
		"",
		styleSectionHeader.Render("Description"),
		body,
	)
}
