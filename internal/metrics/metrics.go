package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// FetchIssued counts list fetches handed to the backend.
	FetchIssued = "issued"
	// FetchApplied counts responses that replaced the displayed list.
	FetchApplied = "applied"
	// FetchDiscarded counts responses superseded by a newer fetch.
	FetchDiscarded = "discarded"
	// FetchFailed counts latest-issued fetches that returned an error.
	FetchFailed = "failed"
)

var (
	listFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "issuedesk",
			Name:      "list_fetches_total",
			Help:      "List fetches partitioned by lifecycle outcome.",
		},
		[]string{"outcome"},
	)

	listFetchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "issuedesk",
			Name:      "list_fetch_seconds",
			Help:      "Round trip latency of list fetches in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "issuedesk",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Backend HTTP requests partitioned by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "issuedesk",
			Subsystem: "server",
			Name:      "request_seconds",
			Help:      "Backend HTTP request latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"route"},
	)
)

// RegisterClient attaches the list fetch collectors. The interactive
// client exposes these on its own registry.
func RegisterClient(reg prometheus.Registerer) error {
	return register(reg, listFetchesTotal, listFetchSeconds)
}

// RegisterServer attaches the backend HTTP collectors.
func RegisterServer(reg prometheus.Registerer) error {
	return register(reg, httpRequestsTotal, httpRequestSeconds)
}

func register(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveFetch increments the list fetch counter for outcome.
func ObserveFetch(outcome string) {
	listFetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchLatency records how long a list fetch took to resolve.
func ObserveFetchLatency(d time.Duration) {
	if d < 0 {
		d = 0
	}
	listFetchSeconds.Observe(d.Seconds())
}

// ObserveRequest records one backend HTTP request.
func ObserveRequest(route, method string, code int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	if d < 0 {
		d = 0
	}
	httpRequestSeconds.WithLabelValues(route).Observe(d.Seconds())
}
