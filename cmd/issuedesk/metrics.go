package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"issuedesk/internal/debug"
	"issuedesk/internal/metrics"
)

// clientMetricsHandler exposes the list fetch collectors on a registry of
// their own so they never mix with the backend's request metrics.
func clientMetricsHandler() (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := metrics.RegisterClient(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux, nil
}

// serveClientMetrics serves /metrics on addr until ctx is done and
// returns the bound address.
func serveClientMetrics(ctx context.Context, addr string) (string, error) {
	handler, err := clientMetricsHandler()
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen for metrics: %w", err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger := debug.Logger()
			logger.Warn().Err(err).Msg("metrics server stopped")
		}
	}()
	return ln.Addr().String(), nil
}
