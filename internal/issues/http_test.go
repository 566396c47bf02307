package issues

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuedesk/internal/domain"
	appErrors "issuedesk/internal/errors"
)

func TestQueryValuesOmitsEmpty(t *testing.T) {
	q := Query{SortBy: "updatedAt", SortOrder: domain.SortDesc, Page: 1, PageSize: 10}
	got := q.Values()
	want := url.Values{
		"sortBy":    {"updatedAt"},
		"sortOrder": {"desc"},
		"page":      {"1"},
		"pageSize":  {"10"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	full := Query{Search: "login", Status: domain.StatusOpen, Priority: domain.PriorityHigh, Assignee: "Alice"}
	v := full.Values()
	assert.Equal(t, "login", v.Get("search"))
	assert.Equal(t, "open", v.Get("status"))
	assert.Equal(t, "high", v.Get("priority"))
	assert.Equal(t, "Alice", v.Get("assignee"))
	assert.False(t, v.Has("page"))
}

func TestListSendsQueryParameters(t *testing.T) {
	var gotURL *url.URL
	client := newTestClient("http://backend/", roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL
		require.Equal(t, http.MethodGet, req.Method)
		return jsonResponse(http.StatusOK, `[{"id":"1","title":"Fix login","status":"open","priority":"high","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"}]`), nil
	}))

	issues, err := client.List(context.Background(), Query{Search: "fix", Status: domain.StatusOpen, SortBy: "title", SortOrder: domain.SortAsc, Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Fix login", issues[0].Title)
	assert.Equal(t, domain.PriorityHigh, issues[0].Priority)
	assert.Nil(t, issues[0].Assignee)

	require.NotNil(t, gotURL)
	assert.Equal(t, "/issues", gotURL.Path)
	assert.Equal(t, "fix", gotURL.Query().Get("search"))
	assert.Equal(t, "2", gotURL.Query().Get("page"))
	assert.False(t, gotURL.Query().Has("priority"))
}

func TestListNullBodyIsEmptySlice(t *testing.T) {
	client := newTestClient("http://backend", roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `null`), nil
	}))
	issues, err := client.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		rt     roundTripFunc
		code   appErrors.Code
		status int
	}{
		{
			name: "transport failure",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			code: appErrors.CodeNetwork,
		},
		{
			name: "server error",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
			},
			code:   appErrors.CodeServer,
			status: http.StatusInternalServerError,
		},
		{
			name: "not found",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusNotFound, `{"detail":"Issue not found"}`), nil
			},
			code:   appErrors.CodeNotFound,
			status: http.StatusNotFound,
		},
		{
			name: "bad json",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{`), nil
			},
			code: appErrors.CodeParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient("http://backend", tt.rt)
			_, err := client.Get(context.Background(), "abc")
			require.Error(t, err)
			assert.Equal(t, tt.code, appErrors.CodeOf(err))
			assert.Equal(t, tt.status, appErrors.StatusOf(err))
		})
	}
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	client := newTestClient("http://backend", roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, ``), nil
	}))
	_, err := client.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCanceledContextIsNotClassified(t *testing.T) {
	client := newTestClient("http://backend", roundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.List(ctx, Query{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, appErrors.CodeUnknown, appErrors.CodeOf(err))
}

func TestMissingBaseURLIsConfigurationError(t *testing.T) {
	client := NewHTTPClient("", time.Second)
	_, err := client.List(context.Background(), Query{})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeConfigurationError))
}

func TestCreateAndUpdateRoundTrip(t *testing.T) {
	var created map[string]any
	var updated map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/issues":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"new-id","title":"Write docs","status":"open","priority":"medium"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/issues/new-id":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
			_, _ = w.Write([]byte(`{"id":"new-id","title":"Write docs","status":"closed","priority":"medium"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Second)
	ctx := context.Background()

	in := domain.NewIssueInput("Write docs", "", domain.StatusAny, domain.PriorityAny, "").WithCreateDefaults()
	issue, err := client.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "new-id", issue.ID)
	assert.Equal(t, map[string]any{"title": "Write docs", "status": "open", "priority": "medium"}, created)

	closed := domain.StatusClosed
	issue, err = client.Update(ctx, "new-id", domain.IssueInput{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, issue.Status)
	assert.Equal(t, map[string]any{"status": "closed"}, updated)
}

func TestMockClientDefaults(t *testing.T) {
	m := NewMockClient()
	issues, err := m.List(context.Background(), Query{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = m.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMockNotImplemented)

	list, get, create, update := m.Calls()
	assert.Equal(t, []int{1, 1, 0, 0}, []int{list, get, create, update})
	assert.Equal(t, []Query{{Page: 1}}, m.ListQueries())
}
