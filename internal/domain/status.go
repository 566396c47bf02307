package domain

import "strings"

// Status represents the lifecycle state of an issue.
type Status string

const (
	// StatusAny is the empty filter value: no status restriction.
	StatusAny        Status = ""
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
)

// Statuses lists the workflow states in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// ParseStatus normalises and validates an incoming status string.
// "in_progress" and "in progress" are accepted as spellings of in-progress.
// A blank string parses to StatusAny.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	status := Status(normalized)
	if status == StatusAny {
		return StatusAny, nil
	}
	if err := status.Validate(); err != nil {
		return StatusAny, invalidStatusError(raw)
	}
	return status, nil
}

// Validate ensures the status is part of the supported workflow.
// StatusAny is not a valid issue status; it is only meaningful as a filter.
func (s Status) Validate() error {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return nil
	}
	return invalidStatusError(string(s))
}

// IsTerminal reports whether the status represents a finished issue.
func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// Label returns a human readable label.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusClosed:
		return "Closed"
	case StatusAny:
		return "Any"
	default:
		return string(s)
	}
}

// NextFilter cycles through Any -> Open -> In Progress -> Closed -> Any.
func (s Status) NextFilter() Status {
	switch s {
	case StatusAny:
		return StatusOpen
	case StatusOpen:
		return StatusInProgress
	case StatusInProgress:
		return StatusClosed
	default:
		return StatusAny
	}
}
