package server

import (
	"context"
	"errors"

	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
)

// ErrNotFound is returned by a Store when no issue has the given id.
var ErrNotFound = errors.New("server: issue not found")

// Store persists issues for the REST backend.
type Store interface {
	List(ctx context.Context, q issues.Query) ([]domain.Issue, error)
	Get(ctx context.Context, id string) (domain.Issue, error)
	Create(ctx context.Context, in domain.IssueInput) (domain.Issue, error)
	Update(ctx context.Context, id string, in domain.IssueInput) (domain.Issue, error)
	Close() error
}

// SampleIssues is the data loaded by Seed.
func SampleIssues() []domain.IssueInput {
	return []domain.IssueInput{
		domain.NewIssueInput("Fix login button styling", "The button is misaligned on Firefox.", domain.StatusOpen, domain.PriorityHigh, "Alice"),
		domain.NewIssueInput("Implement user profile page", "Users should be able to see their details.", domain.StatusInProgress, domain.PriorityMedium, "Bob"),
		domain.NewIssueInput("Database migration fails", "The v2 migration script has a bug.", domain.StatusOpen, domain.PriorityCritical, "Charlie"),
		domain.NewIssueInput("Update documentation for API v3", "Update API documentation to reflect new changes", domain.StatusClosed, domain.PriorityLow, ""),
	}
}

// Seed inserts SampleIssues into store unless it already holds issues.
func Seed(ctx context.Context, store Store) error {
	existing, err := store.List(ctx, issues.Query{PageSize: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range SampleIssues() {
		if _, err := store.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
