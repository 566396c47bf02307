// Package server implements the REST issue backend the TUI talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"issuedesk/internal/domain"
	"issuedesk/internal/issues"
	"issuedesk/internal/metrics"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Server serves the issue REST API over a Store.
type Server struct {
	store    Store
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry exposed on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New builds a server over store.
func New(store Store, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		store:    store,
		logger:   logger,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /issues", s.handleList)
	mux.HandleFunc("POST /issues", s.handleCreate)
	mux.HandleFunc("GET /issues/{id}", s.handleGet)
	mux.HandleFunc("PUT /issues/{id}", s.handleUpdate)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.handler = s.instrument(mux)
	return s
}

// Handler returns the instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, if non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", lis.Addr().String()).Msg("issue backend listening")
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if ready != nil {
		ready <- lis.Addr().String()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Warn().Err(err).Msg("server shutdown")
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	out, err := s.store.List(r.Context(), q)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	issue, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	in = in.WithCreateDefaults()
	if err := in.ValidateCreate(); err != nil {
		writeValidation(w, err)
		return
	}
	issue, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info().Str("id", issue.ID).Msg("issue created")
	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		writeValidation(w, err)
		return
	}
	issue, err := s.store.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.logger.Info().Str("id", issue.ID).Msg("issue updated")
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Issue not found")
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}

func parseQuery(r *http.Request) (issues.Query, error) {
	v := r.URL.Query()
	status, err := domain.ParseStatus(v.Get("status"))
	if err != nil {
		return issues.Query{}, err
	}
	priority, err := domain.ParsePriority(v.Get("priority"))
	if err != nil {
		return issues.Query{}, err
	}
	page, err := intParam(v.Get("page"), 1)
	if err != nil {
		return issues.Query{}, fmt.Errorf("page: %w", err)
	}
	size, err := intParam(v.Get("pageSize"), defaultPageSize)
	if err != nil {
		return issues.Query{}, fmt.Errorf("pageSize: %w", err)
	}
	sortBy := v.Get("sortBy")
	if sortBy == "" {
		sortBy = "updatedAt"
	}
	sortOrder := domain.SortDesc
	if raw := v.Get("sortOrder"); raw != "" {
		sortOrder = domain.ParseSortDirection(raw)
	}
	return issues.Query{
		Search:    v.Get("search"),
		Status:    status,
		Priority:  priority,
		Assignee:  v.Get("assignee"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		PageSize:  size,
	}, nil
}

func intParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return n, nil
}

func decodeInput(w http.ResponseWriter, r *http.Request) (domain.IssueInput, bool) {
	var in domain.IssueInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return domain.IssueInput{}, false
	}
	return in, true
}

func writeValidation(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	details := make([]map[string]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, map[string]string{"field": f.Field, "msg": f.Reason})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": details})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request metrics and logs each request at debug.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		} else if _, path, ok := strings.Cut(route, " "); ok {
			route = path
		}
		elapsed := time.Since(start)
		metrics.ObserveRequest(route, r.Method, rec.status, elapsed)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
