package listview

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
)

// Mode selects between creating a new issue and editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Writer is the part of issues.Client the form needs.
type Writer interface {
	Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error)
	Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error)
}

// Refresher re-runs the list query.
type Refresher interface {
	Refresh()
}

// Form tracks the create/edit surface and submits it. A successful
// submission closes the form and fires exactly one refresh.
type Form struct {
	writer    Writer
	refresher Refresher
	detail    *Detail
	logger    zerolog.Logger

	mu      sync.Mutex
	open    bool
	mode    Mode
	issueID string
	initial domain.IssueInput
}

// NewForm returns a closed form. detail may be nil.
func NewForm(writer Writer, refresher Refresher, detail *Detail, logger zerolog.Logger) *Form {
	return &Form{writer: writer, refresher: refresher, detail: detail, logger: logger}
}

// OpenCreate opens an empty form in create mode.
func (f *Form) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.mode = ModeCreate
	f.issueID = ""
	f.initial = domain.IssueInput{}.WithCreateDefaults()
}

// OpenEdit opens the form pre-filled from issue.
func (f *Form) OpenEdit(issue domain.Issue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.mode = ModeEdit
	f.issueID = issue.ID
	f.initial = issue.Input()
}

// Close dismisses the form without submitting.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}

// IsOpen reports whether the form is showing.
func (f *Form) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Mode returns the mode the form was last opened in.
func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Initial returns the values the form was opened with.
func (f *Form) Initial() domain.IssueInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initial
}

// Submit validates in and sends it to the backend. Validation failures
// never reach the network. ModeEdit targets the issue passed to
// OpenEdit. On a backend failure the form stays open.
func (f *Form) Submit(ctx context.Context, in domain.IssueInput, mode Mode) (domain.Issue, error) {
	f.mu.Lock()
	id := f.issueID
	f.mu.Unlock()

	var (
		issue domain.Issue
		err   error
	)
	switch mode {
	case ModeEdit:
		if id == "" {
			return domain.Issue{}, appErrors.New(appErrors.CodeValidation, "no issue selected for edit", nil)
		}
		if err := in.ValidateUpdate(); err != nil {
			return domain.Issue{}, err
		}
		issue, err = f.writer.Update(ctx, id, in)
	default:
		in = in.WithCreateDefaults()
		if err := in.ValidateCreate(); err != nil {
			return domain.Issue{}, err
		}
		issue, err = f.writer.Create(ctx, in)
	}
	if err != nil {
		f.logger.Warn().Str("mode", mode.String()).Str("id", id).Err(err).Msg("submit failed")
		return domain.Issue{}, err
	}

	f.logger.Debug().Str("mode", mode.String()).Str("id", issue.ID).Msg("submit succeeded")
	f.Close()
	if f.detail != nil {
		f.detail.replace(issue)
	}
	if f.refresher != nil {
		f.refresher.Refresh()
	}
	return issue, nil
}
