package domain

import "strings"

// Priority expresses scheduling urgency.
type Priority string

const (
	// PriorityAny is the empty filter value: no priority restriction.
	PriorityAny      Priority = ""
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority normalises and validates an incoming priority string.
// A blank string parses to PriorityAny.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == PriorityAny {
		return PriorityAny, nil
	}
	if err := p.Validate(); err != nil {
		return PriorityAny, err
	}
	return p, nil
}

// Validate ensures the priority is one of the supported levels.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return nil
	}
	return invalidPriorityError(string(p))
}

// Rank orders priorities; critical is highest. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Label returns a human readable label.
func (p Priority) Label() string {
	if p == PriorityAny {
		return "Any"
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// NextFilter cycles Any -> Low -> Medium -> High -> Critical -> Any.
func (p Priority) NextFilter() Priority {
	if p == PriorityAny {
		return PriorityLow
	}
	for i, candidate := range Priorities {
		if candidate == p && i+1 < len(Priorities) {
			return Priorities[i+1]
		}
	}
	return PriorityAny
}
