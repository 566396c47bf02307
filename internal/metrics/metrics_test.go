package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterClient(reg))
	require.NoError(t, RegisterClient(reg))
	require.NoError(t, RegisterServer(reg))
	require.NoError(t, RegisterServer(reg))
}

func TestClientAndServerRegistriesAreSeparate(t *testing.T) {
	ObserveFetch(FetchIssued)
	ObserveRequest("/issues", http.MethodGet, http.StatusOK, time.Millisecond)

	server := prometheus.NewRegistry()
	require.NoError(t, RegisterServer(server))
	names := gatheredNames(t, server)
	assert.Contains(t, names, "issuedesk_server_requests_total")
	assert.NotContains(t, names, "issuedesk_list_fetches_total")

	client := prometheus.NewRegistry()
	require.NoError(t, RegisterClient(client))
	names = gatheredNames(t, client)
	assert.Contains(t, names, "issuedesk_list_fetches_total")
	assert.NotContains(t, names, "issuedesk_server_requests_total")
}

func gatheredNames(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func TestObserveFetchCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(listFetchesTotal.WithLabelValues(FetchDiscarded))
	ObserveFetch(FetchDiscarded)
	ObserveFetch(FetchDiscarded)
	after := testutil.ToFloat64(listFetchesTotal.WithLabelValues(FetchDiscarded))
	assert.Equal(t, before+2, after)
}

func TestObserveRequestLabelsStatusCode(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("/issues", http.MethodGet, "200")
	before := testutil.ToFloat64(counter)
	ObserveRequest("/issues", http.MethodGet, http.StatusOK, -time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
