package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form != nil {
		if key.Matches(msg, m.keys.Escape) && !m.form.submitting {
			m.closeForm()
			return nil
		}
		return m.updateForm(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return nil
	}

	signals := m.pipeline.Signals
	cur := signals.Current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.detailVisible():
			m.pipeline.Detail.Hide()
			m.layout()
		case m.toast != nil:
			m.toast = nil
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.Status):
		signals.SetStatus(cur.Status.NextFilter())
	case key.Matches(msg, m.keys.Priority):
		signals.SetPriority(cur.Priority.NextFilter())
	case key.Matches(msg, m.keys.SortBy):
		signals.SetSort(domain.NextSortColumn(cur.Sort.Column), cur.Sort.Direction)
	case key.Matches(msg, m.keys.SortDir):
		signals.SetSort(cur.Sort.Column, cur.Sort.Direction.Toggle())
	case key.Matches(msg, m.keys.NextPage):
		// Without a total count, a short page is the last page.
		if m.loaded && len(m.issues) >= cur.Page.Size {
			signals.SetPageIndex(cur.Page.Index + 1)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if cur.Page.Index > 0 {
			signals.SetPageIndex(cur.Page.Index - 1)
		}
	case key.Matches(msg, m.keys.Refresh):
		m.pipeline.Composer.Refresh()
	case key.Matches(msg, m.keys.Enter):
		if issue, ok := m.selectedIssue(); ok {
			return loadDetail(m.ctx, m.pipeline.Detail, issue.ID)
		}
	case key.Matches(msg, m.keys.New):
		return m.openForm(listview.ModeCreate)
	case key.Matches(msg, m.keys.Edit):
		return m.openForm(listview.ModeEdit)
	case key.Matches(msg, m.keys.Copy):
		if issue, ok := m.editTarget(); ok {
			return copyID(issue.ID)
		}
	case key.Matches(msg, m.keys.Error):
		if m.lastError != "" {
			return m.showToast(toastError, m.lastError, errorToastDuration)
		}
	case m.detailVisible() && key.Matches(msg, m.keys.Up, m.keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

// handleSearchKey edits the search box. Every edit is pushed to the
// search signal; the pipeline debounces it.
func (m *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.setSearch("")
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.setSearch(m.search.Value())
	return cmd
}

func (m *App) setSearch(text string) {
	m.search.SetValue(text)
	if text != m.pipeline.Signals.Current().SearchText {
		m.pipeline.Signals.SetSearch(text)
	}
}
