package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

const (
	errorToastDuration   = 10 * time.Second
	successToastDuration = 5 * time.Second
)

// listUpdateMsg carries one accepted result set or fetch failure from
// the list state.
type listUpdateMsg struct {
	update listview.Update
}

// listClosedMsg is sent when the update stream has been closed.
type listClosedMsg struct{}

// listenForUpdates waits for the next list update. The handler
// re-subscribes after every message.
func listenForUpdates(updates <-chan listview.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return listClosedMsg{}
		}
		return listUpdateMsg{update: u}
	}
}

type detailLoadedMsg struct {
	issue domain.Issue
	err   error
}

func loadDetail(ctx context.Context, detail *listview.Detail, id string) tea.Cmd {
	return func() tea.Msg {
		issue, err := detail.ViewDetail(ctx, id)
		return detailLoadedMsg{issue: issue, err: err}
	}
}

type submitResultMsg struct {
	mode  listview.Mode
	input domain.IssueInput
	issue domain.Issue
	err   error
}

func submitForm(ctx context.Context, form *listview.Form, mode listview.Mode, in domain.IssueInput) tea.Cmd {
	return func() tea.Msg {
		issue, err := form.Submit(ctx, in, mode)
		return submitResultMsg{mode: mode, input: in, issue: issue, err: err}
	}
}

type copiedMsg struct {
	id  string
	err error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func copyID(id string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{id: id, err: copyToClipboard(id)}
	}
}

type toastTickMsg struct {
	id int
}
