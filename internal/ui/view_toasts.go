package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
)

const toastWrapWidth = 48

type toastKind int

const (
	toastError toastKind = iota
	toastSuccess
)

type toast struct {
	id      int
	kind    toastKind
	text    string
	started time.Time
	ttl     time.Duration
}

func (t *toast) remaining() int {
	return max(int((t.ttl - timeNow().Sub(t.started)).Seconds()), 0)
}

func (m *App) showToast(kind toastKind, text string, ttl time.Duration) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, kind: kind, text: text, started: timeNow(), ttl: ttl}
	id := m.toastSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return toastTickMsg{id: id} })
}

func (m *App) showError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	m.lastError = describeError(err)
	return m.showToast(toastError, m.lastError, errorToastDuration)
}

func (m *App) showSuccess(text string) tea.Cmd {
	return m.showToast(toastSuccess, text, successToastDuration)
}

// handleToastTick expires the toast or schedules the next countdown tick.
func (m *App) handleToastTick(msg toastTickMsg) tea.Cmd {
	if m.toast == nil || m.toast.id != msg.id {
		return nil
	}
	if m.toast.remaining() <= 0 {
		m.toast = nil
		return nil
	}
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg })
}

func (m *App) renderToast() string {
	if m.toast == nil {
		return ""
	}
	countdown := fmt.Sprintf("[%ds]", m.toast.remaining())
	title, style := "✓ Done", styleSuccessToast
	if m.toast.kind == toastError {
		title, style = "⚠ Error", styleErrorToast
	}
	body := wordwrap.String(m.toast.text, toastWrapWidth)
	width := max(lipgloss.Width(title), maxLineWidth(strings.Split(body, "\n")), 30)
	pad := max(width-lipgloss.Width(countdown), 0)
	content := title + "\n" + body + "\n" + strings.Repeat(" ", pad) + countdown
	return style.Render(content)
}

// describeError turns a pipeline or backend error into a one-line
// message for the user.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			parts[i] = f.String()
		}
		return "Invalid input: " + strings.Join(parts, "; ")
	}
	switch appErrors.CodeOf(err) {
	case appErrors.CodeNetwork:
		return "Cannot reach the issue server."
	case appErrors.CodeNotFound:
		return "Issue not found. It may have been removed."
	case appErrors.CodeServer:
		if status := appErrors.StatusOf(err); status > 0 {
			return fmt.Sprintf("Server error (HTTP %d).", status)
		}
		return "Server error."
	case appErrors.CodeParseFailed:
		return "Unexpected response from the issue server."
	}
	return err.Error()
}
