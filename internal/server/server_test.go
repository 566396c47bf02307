package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
	"issuedesk/internal/issues"
	"issuedesk/internal/metrics"
)

func newTestBackend(t *testing.T, seed bool) (*SQLiteStore, *issues.HTTPClient, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	store, err := OpenSQLite(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tick := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	if seed {
		require.NoError(t, Seed(ctx, store))
	}

	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.RegisterServer(reg))
	srv := httptest.NewServer(New(store, zerolog.Nop(), WithGatherer(reg)).Handler())
	t.Cleanup(srv.Close)

	return store, issues.NewHTTPClient(srv.URL, 5*time.Second), srv
}

func titles(list []domain.Issue) []string {
	out := make([]string, len(list))
	for i, issue := range list {
		out[i] = issue.Title
	}
	return out
}

func TestHealth(t *testing.T) {
	_, _, srv := newTestBackend(t, false)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListDefaultsToNewestFirst(t *testing.T) {
	_, client, _ := newTestBackend(t, true)
	list, err := client.List(context.Background(), issues.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Update documentation for API v3",
		"Database migration fails",
		"Implement user profile page",
		"Fix login button styling",
	}, titles(list))
}

func TestListFiltersAndSearch(t *testing.T) {
	_, client, _ := newTestBackend(t, true)
	ctx := context.Background()

	list, err := client.List(ctx, issues.Query{Search: "LOGIN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fix login button styling"}, titles(list))

	list, err = client.List(ctx, issues.Query{Status: domain.StatusOpen, SortBy: "title", SortOrder: domain.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Database migration fails", "Fix login button styling"}, titles(list))

	list, err = client.List(ctx, issues.Query{Priority: domain.PriorityLow})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Assignee)

	list, err = client.List(ctx, issues.Query{Assignee: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Implement user profile page"}, titles(list))

	list, err = client.List(ctx, issues.Query{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListSortsPriorityByRank(t *testing.T) {
	_, client, _ := newTestBackend(t, true)
	list, err := client.List(context.Background(), issues.Query{SortBy: "priority", SortOrder: domain.SortDesc})
	require.NoError(t, err)
	got := make([]domain.Priority, len(list))
	for i, issue := range list {
		got[i] = issue.Priority
	}
	assert.Equal(t, []domain.Priority{domain.PriorityCritical, domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}, got)
}

func TestListPaginatesOneBased(t *testing.T) {
	_, client, _ := newTestBackend(t, true)
	ctx := context.Background()

	first, err := client.List(ctx, issues.Query{SortBy: "createdAt", SortOrder: domain.SortAsc, Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := client.List(ctx, issues.Query{SortBy: "createdAt", SortOrder: domain.SortAsc, Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Update documentation for API v3"}, titles(second))

	beyond, err := client.List(ctx, issues.Query{Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestHugePageNumberIsEmpty(t *testing.T) {
	_, _, srv := newTestBackend(t, true)

	resp, err := http.Get(srv.URL + "/issues?page=922337203685477582&pageSize=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.Issue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestUnknownSortColumnKeepsInsertionOrder(t *testing.T) {
	_, client, _ := newTestBackend(t, true)
	list, err := client.List(context.Background(), issues.Query{SortBy: "labels", SortOrder: domain.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, "Fix login button styling", list[0].Title)
}

func TestInvalidQueryParameters(t *testing.T) {
	_, _, srv := newTestBackend(t, false)
	for _, query := range []string{"status=pinned", "priority=urgent", "page=0", "pageSize=abc"} {
		resp, err := http.Get(srv.URL + "/issues?" + query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, query)
	}
}

func TestCreateGetUpdate(t *testing.T) {
	_, client, _ := newTestBackend(t, false)
	ctx := context.Background()

	created, err := client.Create(ctx, domain.NewIssueInput("Add dark mode", "Follow the system theme.", domain.StatusAny, domain.PriorityAny, ""))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusOpen, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := client.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Follow the system theme.", got.DescriptionText())
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	inProgress := domain.StatusInProgress
	assignee := "Dana"
	updated, err := client.Update(ctx, created.ID, domain.IssueInput{Status: &inProgress, Assignee: &assignee})
	require.NoError(t, err)
	assert.Equal(t, "Add dark mode", updated.Title)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "Dana", updated.AssigneeName())
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestMissingIssueIsNotFound(t *testing.T) {
	_, client, _ := newTestBackend(t, false)
	ctx := context.Background()

	_, err := client.Get(ctx, "does-not-exist")
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))

	title := "Valid title"
	_, err = client.Update(ctx, "does-not-exist", domain.IssueInput{Title: &title})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))
}

func TestCreateValidation(t *testing.T) {
	_, client, srv := newTestBackend(t, false)

	_, err := client.Create(context.Background(), domain.NewIssueInput("ab", "", domain.StatusAny, domain.PriorityAny, ""))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeServer))
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.StatusOf(err))

	resp, err := http.Post(srv.URL+"/issues", "application/json", strings.NewReader(`{"title":"Okay","status":"pinned"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), `"field":"status"`)

	resp, err = http.Post(srv.URL+"/issues", "application/json", strings.NewReader(`{"title":"Okay","labels":["x"]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	_, _, srv := newTestBackend(t, false)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `issuedesk_server_requests_total{code="200",method="GET",route="/health"}`)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	store, err := OpenSQLite(context.Background(), "")
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- New(store, zerolog.Nop()).ListenAndServe(ctx, "127.0.0.1:0", ready)
	}()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
