package listview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"issuedesk/internal/clock"
	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
)

const (
	waitTimeout = 2 * time.Second
	quietPeriod = 75 * time.Millisecond
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type listerFunc func(context.Context, issues.Query) ([]domain.Issue, error)

func (f listerFunc) List(ctx context.Context, q issues.Query) ([]domain.Issue, error) {
	return f(ctx, q)
}

type fetchCall struct {
	query issues.Query
	at    time.Time
}

// recordingClient returns a mock whose List reports every call on the
// returned channel and answers with respond.
func recordingClient(fc *clock.FakeClock, respond func(issues.Query) ([]domain.Issue, error)) (*issues.MockClient, chan fetchCall) {
	calls := make(chan fetchCall, 32)
	client := issues.NewMockClient()
	client.ListFn = func(_ context.Context, q issues.Query) ([]domain.Issue, error) {
		calls <- fetchCall{query: q, at: fc.Now()}
		if respond == nil {
			return []domain.Issue{}, nil
		}
		return respond(q)
	}
	return client, calls
}

func startPipeline(t *testing.T, p *Pipeline) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(waitTimeout):
			t.Error("pipeline did not stop")
		}
	})
}

func waitCall(t *testing.T, calls <-chan fetchCall) fetchCall {
	t.Helper()
	select {
	case call := <-calls:
		return call
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for list fetch")
		return fetchCall{}
	}
}

func expectNoCall(t *testing.T, calls <-chan fetchCall) {
	t.Helper()
	select {
	case call := <-calls:
		t.Fatalf("unexpected list fetch: %+v", call.query)
	case <-time.After(quietPeriod):
	}
}

func waitUpdate(t *testing.T, state *ListState, kind UpdateKind) Update {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case u := <-state.Updates():
			if u.Kind == kind {
				return u
			}
		case <-deadline:
			t.Fatalf("timed out waiting for update kind %d", kind)
			return Update{}
		}
	}
}

func sampleIssue(id, title string) domain.Issue {
	return domain.Issue{
		ID:        id,
		Title:     title,
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityMedium,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
}
