package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"issuedesk/internal/clock"
	"issuedesk/internal/issues"
)

const (
	DefaultSearchDebounce = 400 * time.Millisecond
	defaultTriggerBuffer  = 64
)

// ErrComposerRunning is returned when Run is called twice.
var ErrComposerRunning = errors.New("listview: composer already running")

// Composer merges signal changes into a single ordered trigger stream.
// Search text is debounced and only forwarded when it differs from the
// last forwarded value; every other signal is forwarded as is. Each
// trigger reads the current value of every signal and issues one fetch.
type Composer struct {
	signals  *Signals
	executor *Executor
	clock    clock.Clock
	debounce time.Duration
	assignee string
	logger   zerolog.Logger

	triggers chan Signal
	done     chan struct{}

	mu            sync.Mutex
	started       bool
	searchVersion uint64
	searchTimer   *clock.Timer
	lastForwarded string
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithClock sets the clock that drives the search debounce.
func WithClock(c clock.Clock) ComposerOption {
	return func(comp *Composer) { comp.clock = c }
}

// WithDebounce overrides the search debounce window.
func WithDebounce(d time.Duration) ComposerOption {
	return func(comp *Composer) { comp.debounce = d }
}

// WithAssignee restricts every query to a single assignee.
func WithAssignee(name string) ComposerOption {
	return func(comp *Composer) { comp.assignee = name }
}

// WithLogger sets the composer's logger.
func WithLogger(l zerolog.Logger) ComposerOption {
	return func(comp *Composer) { comp.logger = l }
}

// NewComposer subscribes to signals and returns a composer that issues
// fetches through executor once Run is called.
func NewComposer(signals *Signals, executor *Executor, opts ...ComposerOption) *Composer {
	c := &Composer{
		signals:       signals,
		executor:      executor,
		clock:         clock.Real(),
		debounce:      DefaultSearchDebounce,
		logger:        zerolog.Nop(),
		triggers:      make(chan Signal, defaultTriggerBuffer),
		done:          make(chan struct{}),
		lastForwarded: signals.Current().SearchText,
	}
	for _, opt := range opts {
		opt(c)
	}
	signals.subscribe(c.handle)
	return c
}

// Run fires the initial trigger and then processes triggers in order
// until ctx is done. The in-flight fetch is canceled on return.
func (c *Composer) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrComposerRunning
	}
	c.started = true
	c.mu.Unlock()

	defer func() {
		close(c.done)
		c.stopSearchTimer()
		c.executor.Stop()
	}()

	c.process(ctx, SignalInit)
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-c.triggers:
			c.process(ctx, sig)
		}
	}
}

// Refresh injects a synthetic trigger that re-fetches the current query.
func (c *Composer) Refresh() {
	c.enqueue(SignalRefresh)
}

// Query builds the query the next trigger would issue.
func (c *Composer) Query() issues.Query {
	return BuildQuery(c.signals.Current(), c.assignee)
}

// BuildQuery converts signal state to a wire query. The page index is
// 0-based in the state and 1-based on the wire.
func BuildQuery(state SignalState, assignee string) issues.Query {
	return issues.Query{
		Search:    state.SearchText,
		Status:    state.Status,
		Priority:  state.Priority,
		Assignee:  assignee,
		SortBy:    state.Sort.Column,
		SortOrder: state.Sort.Direction,
		Page:      state.Page.Index + 1,
		PageSize:  state.Page.Size,
	}
}

func (c *Composer) process(ctx context.Context, sig Signal) {
	q := c.Query()
	c.logger.Debug().Str("signal", string(sig)).Msg("trigger")
	c.executor.Issue(ctx, q)
}

func (c *Composer) handle(sig Signal) {
	if sig == SignalSearch {
		c.debounceSearch()
		return
	}
	c.enqueue(sig)
}

func (c *Composer) debounceSearch() {
	text := c.signals.Current().SearchText

	c.mu.Lock()
	c.searchVersion++
	version := c.searchVersion
	prev := c.searchTimer
	c.searchTimer = nil
	c.mu.Unlock()

	prev.Stop()
	timer := c.clock.AfterFunc(c.debounce, func() { c.flushSearch(version, text) })

	c.mu.Lock()
	if c.searchVersion == version {
		c.searchTimer = timer
	}
	c.mu.Unlock()
}

func (c *Composer) flushSearch(version uint64, text string) {
	c.mu.Lock()
	if version != c.searchVersion {
		c.mu.Unlock()
		return
	}
	c.searchTimer = nil
	if text == c.lastForwarded {
		c.mu.Unlock()
		c.logger.Debug().Str("search", text).Msg("search unchanged, trigger suppressed")
		return
	}
	c.lastForwarded = text
	c.mu.Unlock()

	c.enqueue(SignalSearch)
}

func (c *Composer) stopSearchTimer() {
	c.mu.Lock()
	timer := c.searchTimer
	c.searchTimer = nil
	c.searchVersion++
	c.mu.Unlock()
	timer.Stop()
}

func (c *Composer) enqueue(sig Signal) {
	select {
	case c.triggers <- sig:
	case <-c.done:
	}
}
