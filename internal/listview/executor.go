package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"issuedesk/internal/clock"
	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
	"issuedesk/internal/metrics"
)

// Lister is the part of issues.Client the executor needs.
type Lister interface {
	List(ctx context.Context, q issues.Query) ([]domain.Issue, error)
}

// Stats counts fetch outcomes over the executor's lifetime.
type Stats struct {
	Issued    int64
	Applied   int64
	Discarded int64
	Failed    int64
}

// Executor runs one list fetch per query. Each fetch is tagged with a
// sequence number; a response is applied only if it belongs to the most
// recently issued fetch.
type Executor struct {
	lister Lister
	state  *ListState
	clock  clock.Clock
	logger zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup

	issued    atomic.Int64
	applied   atomic.Int64
	discarded atomic.Int64
	failed    atomic.Int64
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorClock sets the clock used for latency measurement.
func WithExecutorClock(c clock.Clock) ExecutorOption {
	return func(e *Executor) { e.clock = c }
}

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(l zerolog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor returns an executor that writes accepted results to state.
func NewExecutor(lister Lister, state *ListState, opts ...ExecutorOption) *Executor {
	e := &Executor{
		lister: lister,
		state:  state,
		clock:  clock.Real(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Issue starts a fetch for q, cancels the previous one, and returns the
// new sequence number. It does not wait for the response.
func (e *Executor) Issue(ctx context.Context, q issues.Query) uint64 {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	if e.cancel != nil {
		e.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	e.mu.Unlock()

	e.count(&e.issued, metrics.FetchIssued)
	e.logger.Debug().
		Uint64("seq", seq).
		Str("search", q.Search).
		Str("status", string(q.Status)).
		Str("priority", string(q.Priority)).
		Str("sort_by", q.SortBy).
		Str("sort_order", string(q.SortOrder)).
		Int("page", q.Page).
		Int("page_size", q.PageSize).
		Msg("fetch issued")

	go e.fetch(fetchCtx, cancel, seq, q)
	return seq
}

func (e *Executor) fetch(ctx context.Context, cancel context.CancelFunc, seq uint64, q issues.Query) {
	defer e.wg.Done()
	defer cancel()

	start := e.clock.Now()
	result, err := e.lister.List(ctx, q)
	metrics.ObserveFetchLatency(e.clock.Now().Sub(start))

	e.complete(seq, q, result, err)
}

func (e *Executor) complete(seq uint64, q issues.Query, result []domain.Issue, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seq {
		e.count(&e.discarded, metrics.FetchDiscarded)
		e.logger.Debug().Uint64("seq", seq).Uint64("latest", e.seq).Err(err).Msg("stale response discarded")
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			e.count(&e.discarded, metrics.FetchDiscarded)
			e.logger.Debug().Uint64("seq", seq).Msg("fetch canceled")
			return
		}
		e.count(&e.failed, metrics.FetchFailed)
		e.logger.Warn().Uint64("seq", seq).Err(err).Msg("fetch failed")
		e.state.fail(seq, q, err)
		return
	}

	if !e.state.apply(seq, q, result) {
		e.count(&e.discarded, metrics.FetchDiscarded)
		return
	}
	e.count(&e.applied, metrics.FetchApplied)
	e.logger.Debug().Uint64("seq", seq).Int("count", len(result)).Msg("result applied")
}

func (e *Executor) count(counter *atomic.Int64, outcome string) {
	counter.Add(1)
	metrics.ObserveFetch(outcome)
}

// Latest returns the most recently issued sequence number.
func (e *Executor) Latest() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// Stats returns the outcome counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Issued:    e.issued.Load(),
		Applied:   e.applied.Load(),
		Discarded: e.discarded.Load(),
		Failed:    e.failed.Load(),
	}
}

// Stop cancels the in-flight fetch and waits for every fetch goroutine
// to finish.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}
