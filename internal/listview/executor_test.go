package listview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuedesk/internal/clock"
	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
	"issuedesk/internal/issues"
)

func TestStaleResponseIsDiscarded(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	lister := listerFunc(func(_ context.Context, q issues.Query) ([]domain.Issue, error) {
		if q.Search == "A" {
			close(startedA)
			<-releaseA
			return []domain.Issue{sampleIssue("a", "from A")}, nil
		}
		return []domain.Issue{sampleIssue("b", "from B")}, nil
	})

	state := NewListState(8)
	exec := NewExecutor(lister, state)

	seqA := exec.Issue(context.Background(), issues.Query{Search: "A"})
	<-startedA
	seqB := exec.Issue(context.Background(), issues.Query{Search: "B"})
	assert.Equal(t, uint64(1), seqA)
	assert.Equal(t, uint64(2), seqB)

	u := waitUpdate(t, state, UpdateResults)
	assert.Equal(t, seqB, u.Seq)

	close(releaseA)
	exec.Stop()

	snap := state.Snapshot()
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, "from B", snap.Issues[0].Title)
	assert.Equal(t, seqB, snap.Seq)
	assert.Equal(t, Stats{Issued: 2, Applied: 1, Discarded: 1}, exec.Stats())

	select {
	case extra := <-state.Updates():
		t.Fatalf("stale response produced an update: %+v", extra)
	default:
	}
}

func TestStaleErrorIsDiscarded(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	lister := listerFunc(func(_ context.Context, q issues.Query) ([]domain.Issue, error) {
		if q.Search == "A" {
			close(startedA)
			<-releaseA
			return nil, appErrors.New(appErrors.CodeNetwork, "connection reset", nil)
		}
		return []domain.Issue{sampleIssue("b", "from B")}, nil
	})

	state := NewListState(8)
	exec := NewExecutor(lister, state)

	exec.Issue(context.Background(), issues.Query{Search: "A"})
	<-startedA
	exec.Issue(context.Background(), issues.Query{Search: "B"})
	waitUpdate(t, state, UpdateResults)

	close(releaseA)
	exec.Stop()

	assert.Equal(t, int64(0), exec.Stats().Failed)
	select {
	case extra := <-state.Updates():
		t.Fatalf("stale error produced an update: %+v", extra)
	default:
	}
}

func TestIssueCancelsPreviousFetch(t *testing.T) {
	canceled := make(chan struct{})
	started := make(chan struct{})
	lister := listerFunc(func(ctx context.Context, q issues.Query) ([]domain.Issue, error) {
		if q.Search == "slow" {
			close(started)
			<-ctx.Done()
			close(canceled)
			return nil, ctx.Err()
		}
		return []domain.Issue{}, nil
	})

	state := NewListState(8)
	exec := NewExecutor(lister, state)
	exec.Issue(context.Background(), issues.Query{Search: "slow"})
	<-started
	exec.Issue(context.Background(), issues.Query{Search: "fast"})

	select {
	case <-canceled:
	case <-time.After(waitTimeout):
		t.Fatal("superseded fetch was not canceled")
	}
	exec.Stop()
	assert.Equal(t, int64(1), exec.Stats().Discarded)
}

func TestFailedFetchKeepsPreviousResults(t *testing.T) {
	fc := clock.Fake(epoch)
	first := []domain.Issue{sampleIssue("1", "Fix login"), sampleIssue("2", "Add search")}
	var calls atomic.Int32
	client, fetches := recordingClient(fc, func(issues.Query) ([]domain.Issue, error) {
		if calls.Add(1) == 1 {
			return first, nil
		}
		return nil, appErrors.New(appErrors.CodeNetwork, "dial tcp: connection refused", errors.New("refused"))
	})

	p := New(client, Options{Clock: fc})
	startPipeline(t, p)
	waitCall(t, fetches)
	loaded := waitUpdate(t, p.State, UpdateResults)
	assert.Equal(t, first, loaded.Snapshot.Issues)

	p.Composer.Refresh()
	waitCall(t, fetches)
	failure := waitUpdate(t, p.State, UpdateError)

	require.Error(t, failure.Err)
	assert.True(t, appErrors.IsCode(failure.Err, appErrors.CodeNetwork))
	assert.Equal(t, first, failure.Snapshot.Issues)
	assert.Equal(t, first, p.State.Snapshot().Issues)
	assert.Equal(t, loaded.Seq, p.State.Snapshot().Seq)

	require.Eventually(t, func() bool {
		return p.Executor.Stats().Failed == 1
	}, waitTimeout, 5*time.Millisecond)
}

func TestListStateRejectsOlderSequence(t *testing.T) {
	state := NewListState(4)
	assert.True(t, state.apply(2, issues.Query{Search: "new"}, []domain.Issue{sampleIssue("n", "new")}))
	assert.False(t, state.apply(1, issues.Query{Search: "old"}, []domain.Issue{sampleIssue("o", "old")}))
	assert.Equal(t, "new", state.Snapshot().Query.Search)
}

func TestListStateSnapshotIsACopy(t *testing.T) {
	state := NewListState(4)
	state.apply(1, issues.Query{}, []domain.Issue{sampleIssue("1", "original")})

	snap := state.Snapshot()
	snap.Issues[0].Title = "mutated"
	assert.Equal(t, "original", state.Snapshot().Issues[0].Title)
}

func TestListStateDropsOldestUpdateWhenFull(t *testing.T) {
	state := NewListState(1)
	state.apply(1, issues.Query{Search: "one"}, nil)
	state.apply(2, issues.Query{Search: "two"}, nil)

	u := <-state.Updates()
	assert.Equal(t, "two", u.Query.Search)
	assert.NotNil(t, u.Snapshot.Issues)
}
