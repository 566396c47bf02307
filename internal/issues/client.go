package issues

import (
	"context"
	"net/url"
	"strconv"

	"issuedesk/internal/domain"
)

// Client defines the operations required to talk to the issue backend.
type Client interface {
	List(ctx context.Context, q Query) ([]domain.Issue, error)
	Get(ctx context.Context, id string) (domain.Issue, error)
	Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error)
	Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error)
}

// Query is the canonical list request. Page is 1-based.
type Query struct {
	Search    string
	Status    domain.Status
	Priority  domain.Priority
	Assignee  string
	SortBy    string
	SortOrder domain.SortDirection
	Page      int
	PageSize  int
}

// Values encodes the query as URL parameters. Empty values are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.Search)
	set("status", string(q.Status))
	set("priority", string(q.Priority))
	set("assignee", q.Assignee)
	set("sortBy", q.SortBy)
	set("sortOrder", string(q.SortOrder))
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}
