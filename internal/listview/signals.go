// Package listview implements the query pipeline behind the issue list:
// input signals feed a composer, the composer issues fetches through an
// executor, and the executor replaces the list state with the latest
// accepted result.
package listview

import (
	"sync"

	"issuedesk/internal/domain"
)

// Signal names the input that produced a trigger.
type Signal string

const (
	SignalInit     Signal = "init"
	SignalSearch   Signal = "search"
	SignalStatus   Signal = "status"
	SignalPriority Signal = "priority"
	SignalSort     Signal = "sort"
	SignalPage     Signal = "page"
	SignalRefresh  Signal = "refresh"
)

const (
	DefaultSortColumn = "updatedAt"
	DefaultPageSize   = 10
)

// Sort is the active sort column and direction.
type Sort struct {
	Column    string
	Direction domain.SortDirection
}

// Page is a 0-based page index and a positive page size.
type Page struct {
	Index int
	Size  int
}

// SignalState is the last committed value of every list input.
type SignalState struct {
	SearchText string
	Status     domain.Status
	Priority   domain.Priority
	Sort       Sort
	Page       Page
}

// DefaultSignalState returns the state shown before any interaction.
func DefaultSignalState() SignalState {
	return SignalState{
		Sort: Sort{Column: DefaultSortColumn, Direction: domain.SortDesc},
		Page: Page{Index: 0, Size: DefaultPageSize},
	}
}

// Signals holds the five list inputs. Every setter commits its value and
// then notifies the subscriber with the signal that changed.
type Signals struct {
	mu       sync.Mutex
	state    SignalState
	defaults SignalState
	notify   func(Signal)
}

// NewSignals returns signals starting at initial. Zero-valued sort and
// page fields fall back to DefaultSignalState.
func NewSignals(initial SignalState) *Signals {
	defaults := DefaultSignalState()
	if initial.Sort.Column == "" {
		initial.Sort.Column = defaults.Sort.Column
	}
	if initial.Sort.Direction == "" {
		initial.Sort.Direction = defaults.Sort.Direction
	}
	if initial.Page.Size <= 0 {
		initial.Page.Size = defaults.Page.Size
	}
	if initial.Page.Index < 0 {
		initial.Page.Index = 0
	}
	defaults.Sort = initial.Sort
	defaults.Page.Size = initial.Page.Size
	return &Signals{state: initial, defaults: defaults}
}

// Current returns a copy of every signal's value.
func (s *Signals) Current() SignalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetSearch records the search box text.
func (s *Signals) SetSearch(text string) {
	s.mu.Lock()
	s.state.SearchText = text
	s.mu.Unlock()
	s.emit(SignalSearch)
}

// SetStatus records the status filter. Re-selecting the current value
// still notifies.
func (s *Signals) SetStatus(status domain.Status) {
	s.mu.Lock()
	s.state.Status = status
	s.mu.Unlock()
	s.emit(SignalStatus)
}

// SetPriority records the priority filter.
func (s *Signals) SetPriority(priority domain.Priority) {
	s.mu.Lock()
	s.state.Priority = priority
	s.mu.Unlock()
	s.emit(SignalPriority)
}

// SetSort records the sort and resets the page index to 0 before
// notifying.
func (s *Signals) SetSort(column string, direction domain.SortDirection) {
	s.mu.Lock()
	if column == "" {
		column = s.defaults.Sort.Column
	}
	if direction != domain.SortAsc && direction != domain.SortDesc {
		direction = s.defaults.Sort.Direction
	}
	s.state.Sort = Sort{Column: column, Direction: direction}
	s.state.Page.Index = 0
	s.mu.Unlock()
	s.emit(SignalSort)
}

// SetPage records the page. A negative index becomes 0 and a
// non-positive size becomes the default size.
func (s *Signals) SetPage(index, size int) {
	s.mu.Lock()
	if index < 0 {
		index = 0
	}
	if size <= 0 {
		size = s.defaults.Page.Size
	}
	s.state.Page = Page{Index: index, Size: size}
	s.mu.Unlock()
	s.emit(SignalPage)
}

// SetPageIndex changes the page index and keeps the current size.
func (s *Signals) SetPageIndex(index int) {
	s.SetPage(index, s.Current().Page.Size)
}

func (s *Signals) subscribe(fn func(Signal)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *Signals) emit(sig Signal) {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(sig)
	}
}
