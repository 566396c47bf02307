package listview

import (
	"slices"
	"sync"

	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
)

const defaultUpdateBuffer = 16

// UpdateKind distinguishes accepted results from surfaced failures.
type UpdateKind int

const (
	UpdateResults UpdateKind = iota
	UpdateError
)

// Snapshot is a read-only view of the displayed result set.
type Snapshot struct {
	Issues []domain.Issue
	Query  issues.Query
	Seq    uint64
	Loaded bool
}

// Update is published for every accepted result set and every fetch
// failure the user should see.
type Update struct {
	Kind     UpdateKind
	Snapshot Snapshot
	Query    issues.Query
	Seq      uint64
	Err      error
}

// ListState holds the latest accepted result set. Only the executor
// writes it.
type ListState struct {
	mu      sync.RWMutex
	snap    Snapshot
	applied uint64
	updates chan Update
}

// NewListState returns an empty state whose update channel holds up to
// buffer pending updates. When full, the oldest pending update is
// dropped.
func NewListState(buffer int) *ListState {
	if buffer <= 0 {
		buffer = defaultUpdateBuffer
	}
	return &ListState{updates: make(chan Update, buffer)}
}

// Snapshot returns the current result set. The Issues slice is a copy.
func (s *ListState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Issues = slices.Clone(s.snap.Issues)
	return snap
}

// Updates streams accepted results and failures to the renderer.
func (s *ListState) Updates() <-chan Update {
	return s.updates
}

// apply replaces the result set if seq is newer than anything applied.
func (s *ListState) apply(seq uint64, q issues.Query, result []domain.Issue) bool {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		return false
	}
	if result == nil {
		result = []domain.Issue{}
	}
	s.applied = seq
	s.snap = Snapshot{Issues: result, Query: q, Seq: seq, Loaded: true}
	snap := s.snap
	s.mu.Unlock()

	snap.Issues = slices.Clone(snap.Issues)
	s.publish(Update{Kind: UpdateResults, Snapshot: snap, Query: q, Seq: seq})
	return true
}

// fail surfaces err without touching the result set.
func (s *ListState) fail(seq uint64, q issues.Query, err error) {
	snap := s.Snapshot()
	s.publish(Update{Kind: UpdateError, Snapshot: snap, Query: q, Seq: seq, Err: err})
}

func (s *ListState) publish(u Update) {
	for {
		select {
		case s.updates <- u:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
