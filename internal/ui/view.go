package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

var sortLabels = map[string]string{
	"updatedAt": "Updated",
	"createdAt": "Created",
	"title":     "Title",
	"status":    "Status",
	"priority":  "Priority",
	"assignee":  "Assignee",
}

func (m *App) View() string {
	if !m.ready {
		return "Initializing..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderFilterBar(),
		m.renderBody(),
		m.renderFooter(),
	)

	canvas := NewCanvas(m.width, m.height)
	canvas.DrawStringAt(0, 0, base)
	switch {
	case m.form != nil:
		canvas.centerOverlay(m.form.View(), headerHeight, footerHeight)
	case m.showHelp:
		canvas.centerOverlay(renderHelpOverlay(m.keys), headerHeight, footerHeight)
	}
	if t := m.renderToast(); t != "" {
		canvas.bottomRightOverlay(t, footerHeight)
	}
	return canvas.Render()
}

func (m *App) renderHeader() string {
	title := "ISSUEDESK"
	if m.version != "" {
		title = fmt.Sprintf("ISSUEDESK v%s", m.version)
	}

	var status string
	switch {
	case m.loading():
		status = m.spinner.View() + " Loading…"
	case !m.loaded:
		status = styleStatsDim.Render("Load failed, press r to retry")
	default:
		page := m.pipeline.Signals.Current().Page
		status = styleStatsDim.Render(fmt.Sprintf("%d issues on page %d", len(m.issues), page.Index+1))
	}
	left := styleAppHeader.Render(title) + " " + status

	if m.lastError == "" {
		return left
	}
	indicator := styleErrorIndicator.Render("⚠ !")
	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(indicator), 1)
	return left + strings.Repeat(" ", spacing) + indicator
}

// renderFilterBar shows the current value of every list input. Inputs
// that differ from their defaults are highlighted.
func (m *App) renderFilterBar() string {
	cur := m.pipeline.Signals.Current()
	def := listview.DefaultSignalState()

	chip := func(label string, active bool) string {
		if active {
			return styleFilterChipActive.Render(label)
		}
		return styleFilterChip.Render(label)
	}

	var search string
	if m.searching {
		search = m.search.View()
	} else {
		text := cur.SearchText
		if text == "" {
			text = "–"
		}
		search = chip("Search: "+text, cur.SearchText != "")
	}

	sortCol := sortLabels[cur.Sort.Column]
	if sortCol == "" {
		sortCol = cur.Sort.Column
	}
	parts := []string{
		search,
		chip("Status: "+cur.Status.Label(), cur.Status != domain.StatusAny),
		chip("Priority: "+cur.Priority.Label(), cur.Priority != domain.PriorityAny),
		chip("Sort: "+sortCol+" "+cur.Sort.Direction.Arrow(), cur.Sort != def.Sort),
		chip(fmt.Sprintf("Page %d", cur.Page.Index+1), cur.Page.Index > 0),
	}
	return strings.Join(parts, " ")
}

func (m *App) renderBody() string {
	bodyHeight := max(m.height-headerHeight-footerHeight, minBodyHeight)

	var list string
	if m.loaded && len(m.issues) == 0 {
		msg := styleStatsDim.Render("No issues match the current filters.")
		list = lipgloss.Place(m.table.Width(), m.table.Height(), lipgloss.Center, lipgloss.Center, msg)
	} else {
		list = m.table.View()
	}

	listPane := stylePaneFocused
	if m.detailVisible() {
		listPane = stylePane
	}
	left := listPane.Width(m.table.Width()).Height(bodyHeight - 2).Render(list)
	if !m.detailVisible() {
		return left
	}
	right := stylePaneFocused.
		Width(m.viewport.Width).
		Height(bodyHeight - 2).
		Render(m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
