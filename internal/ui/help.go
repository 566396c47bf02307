package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// helpSection represents a group of keybindings for display.
type helpSection struct {
	title string
	rows  [][]string // Each row: [keys, description]
}

// getHelpSections returns the help content organized into sections.
// Text comes from binding.Help() so the overlay and the key map agree.
func getHelpSections(keys KeyMap) []helpSection {
	return []helpSection{
		{
			title: "NAVIGATION",
			rows: [][]string{
				{keys.Up.Help().Key, keys.Up.Help().Desc},
				{keys.PrevPage.Help().Key, keys.PrevPage.Help().Desc},
				{keys.Enter.Help().Key, keys.Enter.Help().Desc},
				{keys.Escape.Help().Key, keys.Escape.Help().Desc},
			},
		},
		{
			title: "FILTERS",
			rows: [][]string{
				{keys.Search.Help().Key, keys.Search.Help().Desc},
				{keys.Status.Help().Key, keys.Status.Help().Desc},
				{keys.Priority.Help().Key, keys.Priority.Help().Desc},
				{keys.SortBy.Help().Key, keys.SortBy.Help().Desc},
				{keys.SortDir.Help().Key, keys.SortDir.Help().Desc},
			},
		},
		{
			title: "ACTIONS",
			rows: [][]string{
				{keys.New.Help().Key, keys.New.Help().Desc},
				{keys.Edit.Help().Key, keys.Edit.Help().Desc},
				{keys.Copy.Help().Key, keys.Copy.Help().Desc},
				{keys.Refresh.Help().Key, keys.Refresh.Help().Desc},
				{keys.Error.Help().Key, keys.Error.Help().Desc},
				{keys.Quit.Help().Key, keys.Quit.Help().Desc},
			},
		},
	}
}

// renderHelpOverlay renders the help modal. The caller positions it.
func renderHelpOverlay(keys KeyMap) string {
	sections := getHelpSections(keys)

	leftCol := lipgloss.JoinVertical(lipgloss.Left,
		renderHelpSectionTable(sections[0]),
		"",
		renderHelpSectionTable(sections[1]),
	)
	rightCol := renderHelpSectionTable(sections[2])
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "    ", rightCol)

	dividerWidth := max(lipgloss.Width(columns), 40)
	content := lipgloss.JoinVertical(lipgloss.Center,
		styleHelpTitle.Render("✦ ISSUEDESK HELP ✦"),
		styleHelpDivider.Render(strings.Repeat("─", dividerWidth)),
		"",
		columns,
		"",
		styleHelpFooter.Render("Press ? or Esc to close"),
	)
	return styleHelpOverlay.Render(content)
}

// renderHelpSectionTable renders a single help section using lipgloss/table.
func renderHelpSectionTable(section helpSection) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleHelpKey.Width(12)
			}
			return styleHelpDesc
		}).
		Rows(section.rows...)

	header := styleHelpSectionHeader.Render(section.title)
	underline := styleHelpDivider.Render(strings.Repeat("─", len(section.title)))

	// hidden border adds an empty top row
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		underline,
		strings.TrimPrefix(t.String(), "\n"),
	)
}
