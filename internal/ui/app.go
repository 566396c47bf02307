// Package ui implements the terminal front end of the issue list: a
// Bubble Tea model that turns key presses into list signals and renders
// whatever the list state publishes.
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

const (
	headerHeight   = 2
	footerHeight   = 1
	minBodyHeight  = 5
	detailPercent  = 45
	minDetailWidth = 30
)

// Config configures the UI application.
type Config struct {
	Pipeline     *listview.Pipeline
	Context      context.Context
	Version      string
	APIURL       string
	OutputFormat string
}

// App implements the Bubble Tea model for the issue list.
type App struct {
	ctx          context.Context
	pipeline     *listview.Pipeline
	keys         KeyMap
	version      string
	apiURL       string
	outputFormat string

	width  int
	height int
	ready  bool

	table      table.Model
	issues     []domain.Issue
	loaded     bool
	settledSeq uint64

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	viewport      viewport.Model
	markdown      func(string) string
	markdownWidth int

	form     *issueForm
	showHelp bool

	lastError string
	toast     *toast
	toastSeq  int
}

// NewApp builds the model around a pipeline. The caller runs the
// pipeline; the app only reads its state and writes its signals.
func NewApp(cfg Config) (*App, error) {
	if cfg.Pipeline == nil {
		return nil, errors.New("ui: pipeline is required")
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles"
	search.CharLimit = domain.TitleMaxLength

	m := &App{
		ctx:          ctx,
		pipeline:     cfg.Pipeline,
		keys:         DefaultKeyMap(),
		version:      cfg.Version,
		apiURL:       cfg.APIURL,
		outputFormat: cfg.OutputFormat,
		table:        newIssueTable(),
		search:       search,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:     viewport.New(minDetailWidth, minBodyHeight),
	}
	m.search.SetValue(cfg.Pipeline.Signals.Current().SearchText)
	return m, nil
}

func (m *App) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.pipeline.State.Updates()), m.spinner.Tick)
}

// loading reports whether a fetch has been issued that has not yet
// settled as a result or a failure.
func (m *App) loading() bool {
	return m.settledSeq == 0 || m.pipeline.Executor.Latest() > m.settledSeq
}

func (m *App) detailVisible() bool {
	return m.pipeline.Detail.Visible()
}

// selectedIssue returns the issue under the table cursor.
func (m *App) selectedIssue() (domain.Issue, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.issues) {
		return domain.Issue{}, false
	}
	return m.issues[i], true
}

// editTarget is the issue shown in the drawer, or the row under the
// cursor when the drawer is closed.
func (m *App) editTarget() (domain.Issue, bool) {
	if m.detailVisible() {
		if issue, ok := m.pipeline.Detail.Selected(); ok {
			return issue, true
		}
	}
	return m.selectedIssue()
}

func (m *App) applyUpdate(u listview.Update) tea.Cmd {
	m.settledSeq = max(m.settledSeq, u.Seq)
	if u.Kind == listview.UpdateError {
		return m.showError(u.Err)
	}
	m.issues = u.Snapshot.Issues
	m.loaded = true
	m.refreshRows()
	return nil
}

// layout sizes the table and the drawer for the current window.
func (m *App) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := max(m.height-headerHeight-footerHeight, minBodyHeight)
	tableWidth := m.width
	if m.detailVisible() {
		detailWidth := max(m.width*detailPercent/100, minDetailWidth)
		tableWidth = max(m.width-detailWidth, 20)
		m.viewport.Width = max(detailWidth-2, 1)
		m.viewport.Height = max(bodyHeight-2, 1)
	}
	m.table.SetWidth(tableWidth - 2)
	m.table.SetHeight(bodyHeight - 2)
	m.table.SetColumns(tableColumns(tableWidth - 2))
	m.refreshRows()
	m.refreshDetail()
}

func (m *App) refreshRows() {
	m.table.SetRows(issueRows(m.issues, m.table.Columns()))
	// An empty table leaves the cursor at -1; pull it back onto a row
	// once rows exist.
	if c := m.table.Cursor(); len(m.issues) > 0 && (c < 0 || c >= len(m.issues)) {
		m.table.SetCursor(min(max(c, 0), len(m.issues)-1))
	}
}

func (m *App) refreshDetail() {
	if !m.detailVisible() {
		return
	}
	issue, ok := m.pipeline.Detail.Selected()
	if !ok {
		return
	}
	m.viewport.SetContent(m.renderDetailContent(issue, m.viewport.Width))
}

// renderMarkdown renders a description, rebuilding the renderer when the
// drawer width changes.
func (m *App) renderMarkdown(text string, width int) string {
	if m.markdown == nil || m.markdownWidth != width {
		m.markdown = buildMarkdownRenderer(m.outputFormat, width)
		m.markdownWidth = width
	}
	return m.markdown(text)
}
