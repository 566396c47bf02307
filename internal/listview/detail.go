package listview

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
)

// Getter is the part of issues.Client the detail panel needs.
type Getter interface {
	Get(ctx context.Context, id string) (domain.Issue, error)
}

// Detail owns the selected-issue slot and the visibility of the detail
// panel. It is independent of the list pipeline.
type Detail struct {
	getter Getter
	logger zerolog.Logger

	mu       sync.RWMutex
	selected *domain.Issue
	visible  bool
}

// NewDetail returns a hidden detail panel.
func NewDetail(getter Getter, logger zerolog.Logger) *Detail {
	return &Detail{getter: getter, logger: logger}
}

// ViewDetail fetches the issue with id, stores it as the selection and
// shows the panel. On error the previous selection is kept.
func (d *Detail) ViewDetail(ctx context.Context, id string) (domain.Issue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Issue{}, appErrors.New(appErrors.CodeNotFound, "issue not found", nil)
	}

	issue, err := d.getter.Get(ctx, id)
	if err != nil {
		d.logger.Debug().Str("id", id).Err(err).Msg("detail fetch failed")
		return domain.Issue{}, err
	}

	d.mu.Lock()
	d.selected = &issue
	d.visible = true
	d.mu.Unlock()
	return issue, nil
}

// Selected returns the selected issue, if any.
func (d *Detail) Selected() (domain.Issue, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.selected == nil {
		return domain.Issue{}, false
	}
	return *d.selected, true
}

// Visible reports whether the panel is open.
func (d *Detail) Visible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.visible
}

// Hide closes the panel. The selection is kept so edit can reuse it.
func (d *Detail) Hide() {
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
}

// replace swaps in a newer copy of the selected issue.
func (d *Detail) replace(issue domain.Issue) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected != nil && d.selected.ID == issue.ID {
		d.selected = &issue
	}
}
