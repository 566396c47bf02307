package issues

import (
	"context"
	"errors"
	"sync"

	"issuedesk/internal/domain"
)

// ErrMockNotImplemented is returned when a MockClient method lacks an override.
var ErrMockNotImplemented = errors.New("issues.MockClient: method not implemented")

// MockClient is a test double for the Client interface.
type MockClient struct {
	ListFn   func(context.Context, Query) ([]domain.Issue, error)
	GetFn    func(context.Context, string) (domain.Issue, error)
	CreateFn func(context.Context, domain.IssueInput) (domain.Issue, error)
	UpdateFn func(context.Context, string, domain.IssueInput) (domain.Issue, error)

	mu              sync.Mutex
	ListCallCount   int
	GetCallCount    int
	CreateCallCount int
	UpdateCallCount int
	ListCallArgs    []Query
	GetCallArgs     []string
	CreateCallArgs  []domain.IssueInput
	UpdateCallArgs  []UpdateCallArg
}

// UpdateCallArg captures arguments passed to Update.
type UpdateCallArg struct {
	ID    string
	Input domain.IssueInput
}

// NewMockClient returns a MockClient with zeroed handlers.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// List invokes the configured stub or returns an empty page.
func (m *MockClient) List(ctx context.Context, q Query) ([]domain.Issue, error) {
	m.mu.Lock()
	m.ListCallCount++
	m.ListCallArgs = append(m.ListCallArgs, q)
	m.mu.Unlock()

	if m.ListFn == nil {
		return []domain.Issue{}, nil
	}
	return m.ListFn(ctx, q)
}

// Get invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Get(ctx context.Context, id string) (domain.Issue, error) {
	m.mu.Lock()
	m.GetCallCount++
	m.GetCallArgs = append(m.GetCallArgs, id)
	m.mu.Unlock()

	if m.GetFn == nil {
		return domain.Issue{}, ErrMockNotImplemented
	}
	return m.GetFn(ctx, id)
}

// Create invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error) {
	m.mu.Lock()
	m.CreateCallCount++
	m.CreateCallArgs = append(m.CreateCallArgs, in)
	m.mu.Unlock()

	if m.CreateFn == nil {
		return domain.Issue{}, ErrMockNotImplemented
	}
	return m.CreateFn(ctx, in)
}

// Update invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error) {
	m.mu.Lock()
	m.UpdateCallCount++
	m.UpdateCallArgs = append(m.UpdateCallArgs, UpdateCallArg{ID: id, Input: in})
	m.mu.Unlock()

	if m.UpdateFn == nil {
		return domain.Issue{}, ErrMockNotImplemented
	}
	return m.UpdateFn(ctx, id, in)
}

// Calls returns a consistent snapshot of the call counters as
// list, get, create, update.
func (m *MockClient) Calls() (list, get, create, update int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCallCount, m.GetCallCount, m.CreateCallCount, m.UpdateCallCount
}

// ListQueries returns a copy of every Query passed to List.
func (m *MockClient) ListQueries() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.ListCallArgs...)
}
