// Package server implements the HTTP route layer. Handlers are thin:
// they whitelist query parameters, derive the cache key, and delegate
// to the catalog service. Upstream payloads pass through untouched.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/cache"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/catalog"
	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/pexels"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for the route layer.
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freevid_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freevid_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds by route",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5},
	}, []string{"route"})
)

// Config holds the route layer configuration.
type Config struct {
	// AdminSecret gates POST /api/cache/clear. Empty disables the
	// endpoint entirely.
	AdminSecret string

	// WebDir serves static frontend files when non-empty.
	WebDir string
}

// Server routes browser requests to the cached catalog.
type Server struct {
	catalog   *catalog.Service
	client    *pexels.Client
	config    Config
	logger    zerolog.Logger
	mux       *http.ServeMux
	startTime time.Time
}

// New creates the route layer on top of a catalog service and the
// upstream client.
func New(cat *catalog.Service, client *pexels.Client, cfg Config) *Server {
	s := &Server{
		catalog:   cat,
		client:    client,
		config:    cfg,
		logger:    log.With().Str("component", "server").Logger(),
		mux:       http.NewServeMux(),
		startTime: time.Now(),
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/videos/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/videos/popular", s.handlePopular)
	s.mux.HandleFunc("GET /api/videos/{id}", s.handleVideo)
	s.mux.HandleFunc("GET /api/collections/featured", s.handleFeaturedCollections)
	s.mux.HandleFunc("GET /api/collections/{id}", s.handleCollection)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	if s.config.WebDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.WebDir)))
	}
}

// handleSearch proxies GET /api/videos/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := pickParams(r, "query", "page", "per_page", "orientation", "size", "locale")
	if params.Get("query") == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	key := cache.NewKey("search", flatten(params))
	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		return s.client.SearchVideos(ctx, params)
	})
}

// handlePopular proxies GET /api/videos/popular.
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	params := pickParams(r, "page", "per_page", "min_width", "min_height", "min_duration", "max_duration")

	key := cache.NewKey("popular", flatten(params))
	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		return s.client.PopularVideos(ctx, params)
	})
}

// handleVideo proxies GET /api/videos/{id}.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	key := cache.NewKey("video", map[string]string{"id": id})
	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		return s.client.Video(ctx, id)
	})
}

// handleFeaturedCollections proxies GET /api/collections/featured.
func (s *Server) handleFeaturedCollections(w http.ResponseWriter, r *http.Request) {
	params := pickParams(r, "page", "per_page")

	key := cache.NewKey("collections_featured", flatten(params))
	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		return s.client.FeaturedCollections(ctx, params)
	})
}

// handleCollection proxies GET /api/collections/{id}.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	params := pickParams(r, "page", "per_page", "type")

	keyParams := flatten(params)
	keyParams["id"] = id
	key := cache.NewKey("collection", keyParams)
	s.serveCached(w, r, key, func(ctx context.Context) ([]byte, error) {
		return s.client.Collection(ctx, id, params)
	})
}

// handleHealth reports liveness and the upstream quota state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	quota := s.client.Quota()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"uptime":        time.Since(s.startTime).Round(time.Second).String(),
		"cache_entries": s.catalog.Size(r.Context()),
		"quota": map[string]interface{}{
			"remaining": quota.Remaining,
			"healthy":   quota.IsHealthy,
		},
	})
}

// handleStats reports cache and upstream counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.catalog.Stats()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cache_hits":       stats.Hits,
		"cache_misses":     stats.Misses,
		"upstream_fetches": stats.Upstream,
		"upstream_errors":  stats.Errors,
		"cache_entries":    s.catalog.Size(r.Context()),
		"uptime":           time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleCacheClear empties the cache. Requires the admin secret.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if s.config.AdminSecret == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	got := r.Header.Get("X-Admin-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.config.AdminSecret)) != 1 {
		s.writeError(w, http.StatusForbidden, "invalid admin secret")
		return
	}

	removed := s.catalog.Clear(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

// serveCached runs the fetch-on-miss flow and writes the payload.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key cache.Key, fetch catalog.FetchFunc) {
	payload, cached, err := s.catalog.Get(r.Context(), key, fetch)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write response")
	}
}

// writeUpstreamError maps upstream failures onto response codes.
// Client errors (bad ID, bad params) keep the upstream status; quota
// exhaustion is 503; everything else is a 502.
func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, pexels.ErrQuotaExceeded) {
		s.writeError(w, http.StatusServiceUnavailable, "upstream quota exhausted")
		return
	}

	var apiErr *pexels.APIError
	if errors.As(err, &apiErr) && apiErr.Class == pexels.ErrorClassClient {
		s.writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	s.writeError(w, http.StatusBadGateway, "upstream request failed")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// pickParams copies only the allowed query parameters. Unknown
// parameters are dropped so they cannot fragment the cache key space.
func pickParams(r *http.Request, allowed ...string) url.Values {
	query := r.URL.Query()
	params := url.Values{}
	for _, name := range allowed {
		if value := query.Get(name); value != "" {
			params.Set(name, value)
		}
	}
	return params
}

// flatten converts single-valued url.Values into a key parameter map.
func flatten(params url.Values) map[string]string {
	out := make(map[string]string, len(params))
	for name := range params {
		out[name] = params.Get(name)
	}
	return out
}

// withRequestLog wraps the mux with access logging and HTTP metrics.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		httpRequestsTotal.WithLabelValues(route, fmt.Sprintf("%d", rec.status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
