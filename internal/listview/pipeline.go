package listview

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"issuedesk/internal/clock"
	"issuedesk/internal/issues"
)

// Options configures New.
type Options struct {
	Initial      SignalState
	Debounce     time.Duration
	Assignee     string
	UpdateBuffer int
	Clock        clock.Clock
	Logger       zerolog.Logger
}

// Pipeline wires the list inputs, composer, executor, state and the
// detail/form side-channel around one client.
type Pipeline struct {
	Signals  *Signals
	Composer *Composer
	Executor *Executor
	State    *ListState
	Detail   *Detail
	Form     *Form
}

// New assembles a pipeline. Call Run to start fetching.
func New(client issues.Client, opts Options) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultSearchDebounce
	}

	state := NewListState(opts.UpdateBuffer)
	signals := NewSignals(opts.Initial)
	executor := NewExecutor(client, state,
		WithExecutorClock(opts.Clock),
		WithExecutorLogger(opts.Logger.With().Str("component", "executor").Logger()),
	)
	composer := NewComposer(signals, executor,
		WithClock(opts.Clock),
		WithDebounce(opts.Debounce),
		WithAssignee(opts.Assignee),
		WithLogger(opts.Logger.With().Str("component", "composer").Logger()),
	)
	detail := NewDetail(client, opts.Logger.With().Str("component", "detail").Logger())
	form := NewForm(client, composer, detail, opts.Logger.With().Str("component", "form").Logger())

	return &Pipeline{
		Signals:  signals,
		Composer: composer,
		Executor: executor,
		State:    state,
		Detail:   detail,
		Form:     form,
	}
}

// Run blocks until ctx is done. See Composer.Run.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.Composer.Run(ctx)
}
