package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"issuedesk/internal/domain"
	"issuedesk/internal/listview"
)

const formWidth = 60

// issueForm is the create/edit overlay. Field values live on the struct
// so the huh form can be rebuilt after a failed submit without losing
// what the user typed.
type issueForm struct {
	mode listview.Mode
	form *huh.Form

	title       string
	description string
	status      domain.Status
	priority    domain.Priority
	assignee    string

	submitting bool
	err        string
}

func newIssueForm(mode listview.Mode, initial domain.IssueInput) *issueForm {
	f := &issueForm{
		mode:     mode,
		status:   domain.StatusOpen,
		priority: domain.PriorityMedium,
	}
	if initial.Title != nil {
		f.title = *initial.Title
	}
	if initial.Description != nil {
		f.description = *initial.Description
	}
	if initial.Status != nil {
		f.status = *initial.Status
	}
	if initial.Priority != nil {
		f.priority = *initial.Priority
	}
	if initial.Assignee != nil {
		f.assignee = *initial.Assignee
	}
	f.build()
	return f
}

func (f *issueForm) build() {
	statusOptions := make([]huh.Option[domain.Status], len(domain.Statuses))
	for i, s := range domain.Statuses {
		statusOptions[i] = huh.NewOption(s.Label(), s)
	}
	priorityOptions := make([]huh.Option[domain.Priority], len(domain.Priorities))
	for i, p := range domain.Priorities {
		priorityOptions[i] = huh.NewOption(p.Label(), p)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(domain.TitleMaxLength).
				Validate(validateTitle).
				Value(&f.title),
			huh.NewText().
				Title("Description").
				Placeholder("Markdown supported").
				CharLimit(domain.DescriptionMaxLength).
				Lines(4).
				Value(&f.description),
			huh.NewSelect[domain.Status]().
				Title("Status").
				Options(statusOptions...).
				Value(&f.status),
			huh.NewSelect[domain.Priority]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&f.priority),
			huh.NewInput().
				Title("Assignee").
				Placeholder("unassigned").
				Value(&f.assignee),
		),
	).WithShowHelp(true).WithWidth(formWidth)
}

// validateTitle runs the create rules for the title field alone.
func validateTitle(title string) error {
	err := domain.IssueInput{Title: &title}.ValidateCreate()
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		return errors.New(verr.Fields[0].String())
	}
	return err
}

func (f *issueForm) Init() tea.Cmd {
	return f.form.Init()
}

func (f *issueForm) Update(msg tea.Msg) tea.Cmd {
	model, cmd := f.form.Update(msg)
	if hf, ok := model.(*huh.Form); ok {
		f.form = hf
	}
	return cmd
}

func (f *issueForm) completed() bool { return f.form.State == huh.StateCompleted }

func (f *issueForm) aborted() bool { return f.form.State == huh.StateAborted }

// input converts the field values to a request body. Edits send every
// field so clearing the description or assignee takes effect.
func (f *issueForm) input() domain.IssueInput {
	in := domain.NewIssueInput(f.title, f.description, f.status, f.priority, f.assignee)
	if f.mode == listview.ModeEdit {
		description := f.description
		assignee := strings.TrimSpace(f.assignee)
		in.Description = &description
		in.Assignee = &assignee
	}
	return in
}

// retry reopens the form with the same values after a failed submit.
func (f *issueForm) retry(err error) tea.Cmd {
	f.submitting = false
	f.err = describeError(err)
	f.build()
	return f.form.Init()
}

func (f *issueForm) View() string {
	title := "New issue"
	if f.mode == listview.ModeEdit {
		title = "Edit issue"
	}
	parts := []string{styleHelpTitle.Render(title), "", f.form.View()}
	switch {
	case f.submitting:
		parts = append(parts, styleStatsDim.Render("Saving…"))
	case f.err != "":
		parts = append(parts, styleErrorIndicator.Render("⚠ "+f.err))
	}
	parts = append(parts, styleHelpFooter.Render("Esc to cancel"))
	return styleFormOverlay.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
