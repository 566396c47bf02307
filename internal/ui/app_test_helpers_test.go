package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"issuedesk/internal/clock"
	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
	"issuedesk/internal/listview"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// newTestApp builds an app over a pipeline that is never run, so key
// presses only change signals and no fetch is issued.
func newTestApp(t *testing.T, client *issues.MockClient) *App {
	t.Helper()
	if client == nil {
		client = issues.NewMockClient()
	}
	p := listview.New(client, listview.Options{Clock: clock.Fake(epoch)})
	app, err := NewApp(Config{
		Pipeline:     p,
		Version:      "test",
		APIURL:       "http://api.test",
		OutputFormat: "plain",
	})
	if err != nil {
		t.Fatalf("NewApp returned error: %v", err)
	}
	app.Update(tea.WindowSizeMsg{Width: 140, Height: 32})
	return app
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func press(app *App, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = app.Update(msg)
	}
	return cmd
}

func deliver(app *App, seq uint64, list []domain.Issue) {
	app.Update(listUpdateMsg{update: listview.Update{
		Kind:     listview.UpdateResults,
		Snapshot: listview.Snapshot{Issues: list, Seq: seq, Loaded: true},
		Seq:      seq,
	}})
}

func testIssues(n int) []domain.Issue {
	out := make([]domain.Issue, n)
	for i := range out {
		out[i] = domain.Issue{
			ID:        fmt.Sprintf("issue-%02d-0000-0000", i+1),
			Title:     fmt.Sprintf("Issue number %d", i+1),
			Status:    domain.StatusOpen,
			Priority:  domain.PriorityMedium,
			CreatedAt: epoch,
			UpdatedAt: epoch,
		}
	}
	return out
}

func viewText(app *App) string {
	return ansi.Strip(app.View())
}

// viewContains fails the test unless the stripped view contains want.
func viewContains(t *testing.T, app *App, want string) {
	t.Helper()
	if view := viewText(app); !strings.Contains(view, want) {
		t.Fatalf("expected view to contain %q, got:\n%s", want, view)
	}
}

// viewLacks fails the test if the stripped view contains unwanted.
func viewLacks(t *testing.T, app *App, unwanted string) {
	t.Helper()
	if view := viewText(app); strings.Contains(view, unwanted) {
		t.Fatalf("expected view not to contain %q, got:\n%s", unwanted, view)
	}
}
