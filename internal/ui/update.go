package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"issuedesk/internal/listview"
)

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case listUpdateMsg:
		cmd := m.applyUpdate(msg.update)
		return m, tea.Batch(cmd, listenForUpdates(m.pipeline.State.Updates()))

	case listClosedMsg:
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.layout()
		m.viewport.GotoTop()
		return m, nil

	case submitResultMsg:
		return m, m.handleSubmitResult(msg)

	case copiedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		return m, m.showSuccess("Copied '" + msg.id + "' to clipboard.")

	case toastTickMsg:
		return m, m.handleToastTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// huh schedules its own messages for field focus and validation.
	if m.form != nil {
		return m, m.updateForm(msg)
	}
	return m, nil
}

func (m *App) openForm(mode listview.Mode) tea.Cmd {
	if mode == listview.ModeEdit {
		issue, ok := m.editTarget()
		if !ok {
			return nil
		}
		m.pipeline.Form.OpenEdit(issue)
	} else {
		m.pipeline.Form.OpenCreate()
	}
	m.form = newIssueForm(mode, m.pipeline.Form.Initial())
	return m.form.Init()
}

func (m *App) closeForm() {
	m.pipeline.Form.Close()
	m.form = nil
}

func (m *App) updateForm(msg tea.Msg) tea.Cmd {
	if m.form.submitting {
		return nil
	}
	cmd := m.form.Update(msg)
	switch {
	case m.form.aborted():
		m.closeForm()
		return nil
	case m.form.completed():
		return tea.Batch(cmd, m.submit())
	}
	return cmd
}

// submit sends the current form values. The form stays on screen until
// the result arrives.
func (m *App) submit() tea.Cmd {
	m.form.submitting = true
	m.form.err = ""
	return submitForm(m.ctx, m.pipeline.Form, m.form.mode, m.form.input())
}

func (m *App) handleSubmitResult(msg submitResultMsg) tea.Cmd {
	if msg.err != nil {
		var cmd tea.Cmd
		if m.form != nil {
			cmd = m.form.retry(msg.err)
		}
		return tea.Batch(cmd, m.showError(msg.err))
	}
	m.form = nil
	m.refreshDetail()
	verb := "Created"
	if msg.mode == listview.ModeEdit {
		verb = "Updated"
	}
	return m.showSuccess(verb + " '" + msg.issue.Title + "'.")
}
