package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// Issue is a tracked work item as returned by the backend. IDs and
// timestamps are assigned by the server; the client never makes them up.
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Assignee    *string   `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DescriptionText returns the description or "".
func (i Issue) DescriptionText() string {
	if i.Description == nil {
		return ""
	}
	return *i.Description
}

// AssigneeName returns the assignee or "".
func (i Issue) AssigneeName() string {
	if i.Assignee == nil {
		return ""
	}
	return *i.Assignee
}

// Input returns an IssueInput pre-filled from the issue, used to seed
// the edit form.
func (i Issue) Input() IssueInput {
	title := i.Title
	status := i.Status
	priority := i.Priority
	in := IssueInput{
		Title:    &title,
		Status:   &status,
		Priority: &priority,
	}
	if i.Description != nil {
		d := *i.Description
		in.Description = &d
	}
	if i.Assignee != nil {
		a := *i.Assignee
		in.Assignee = &a
	}
	return in
}

// IssueInput is a partial Issue sent on create and update. Nil fields
// are omitted from the request body.
type IssueInput struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
}

// NewIssueInput builds an input from plain form values. Empty
// description and assignee are left unset.
func NewIssueInput(title, description string, status Status, priority Priority, assignee string) IssueInput {
	in := IssueInput{Title: &title}
	if status != StatusAny {
		in.Status = &status
	}
	if priority != PriorityAny {
		in.Priority = &priority
	}
	if d := strings.TrimSpace(description); d != "" {
		in.Description = &description
	}
	if a := strings.TrimSpace(assignee); a != "" {
		in.Assignee = &a
	}
	return in
}

// WithCreateDefaults fills status open and priority medium when unset.
func (in IssueInput) WithCreateDefaults() IssueInput {
	if in.Status == nil {
		s := StatusOpen
		in.Status = &s
	}
	if in.Priority == nil {
		p := PriorityMedium
		in.Priority = &p
	}
	return in
}

// ValidateCreate checks an input destined for the create endpoint.
// Title is required.
func (in IssueInput) ValidateCreate() error {
	verr := &ValidationError{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		verr.add("title", "is required")
	}
	in.validateFields(verr)
	return verr.orNil()
}

// ValidateUpdate checks an input destined for the update endpoint.
// Every field is optional, but fields that are present must be valid.
func (in IssueInput) ValidateUpdate() error {
	verr := &ValidationError{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		verr.add("title", "is required")
	}
	in.validateFields(verr)
	return verr.orNil()
}

func (in IssueInput) validateFields(verr *ValidationError) {
	// Length counts every character as typed, surrounding spaces included.
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		n := utf8.RuneCountInString(*in.Title)
		if n < TitleMinLength {
			verr.add("title", "must be at least 3 characters")
		} else if n > TitleMaxLength {
			verr.add("title", "must be at most 100 characters")
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > DescriptionMaxLength {
		verr.add("description", "must be at most 500 characters")
	}
	if in.Status != nil {
		if err := in.Status.Validate(); err != nil {
			verr.add("status", "must be open, in-progress or closed")
		}
	}
	if in.Priority != nil {
		if err := in.Priority.Validate(); err != nil {
			verr.add("priority", "must be low, medium, high or critical")
		}
	}
}

// Apply merges the set fields of in onto issue and returns the result.
func (in IssueInput) Apply(issue Issue) Issue {
	if in.Title != nil {
		issue.Title = *in.Title
	}
	if in.Description != nil {
		d := *in.Description
		issue.Description = &d
	}
	if in.Status != nil {
		issue.Status = *in.Status
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
	}
	if in.Assignee != nil {
		a := *in.Assignee
		issue.Assignee = &a
	}
	return issue
}
