// Package pexels provides the HTTP client for the upstream stock-video
// API, with quota gating, error classification and retry handling.
// Payloads are returned as opaque JSON bytes; interpreting the upstream
// schema is the frontend's job.
package pexels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Apurbo326/FreeVid-Version-01-without-deploying/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.pexels.com"

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freevid_upstream_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freevid_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freevid_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// APIKey authenticates requests via the Authorization header (REQUIRED).
	APIKey string

	// BaseURL is the upstream API host (default: DefaultBaseURL).
	BaseURL string

	// UserAgent identifies this service to the upstream.
	UserAgent string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		UserAgent: "freevid/1.0",
		Timeout:   15 * time.Second,
	}
}

// Client is the upstream video API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *ratelimit.Tracker
	logger     zerolog.Logger
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := log.With().Str("component", "pexels-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		limiter:   ratelimit.NewTracker(logger),
		logger:    logger,
	}, nil
}

// SearchVideos fetches a page of video search results.
func (c *Client) SearchVideos(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, "/videos/search", params)
}

// PopularVideos fetches a page of currently popular videos.
func (c *Client) PopularVideos(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, "/videos/popular", params)
}

// Video fetches a single video by ID.
func (c *Client) Video(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, "/videos/videos/"+url.PathEscape(id), nil)
}

// FeaturedCollections fetches a page of featured collections.
func (c *Client) FeaturedCollections(ctx context.Context, params url.Values) ([]byte, error) {
	return c.get(ctx, "/v1/collections/featured", params)
}

// Collection fetches the media of a collection by ID.
func (c *Client) Collection(ctx context.Context, id string, params url.Values) ([]byte, error) {
	return c.get(ctx, "/v1/collections/"+url.PathEscape(id), params)
}

// Quota returns the most recently observed upstream quota state.
func (c *Client) Quota() ratelimit.State {
	return c.limiter.GetState()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// get performs an upstream GET with quota gating, retry and error
// classification, returning the response body on 200.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if !c.limiter.Allow() {
		requestsTotal.WithLabelValues(endpoint, "quota_blocked").Inc()
		return nil, ErrQuotaExceeded
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body []byte

	err := retryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Upstream request failed")
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{Class: ErrorClassNetwork, Message: "transport failure", Err: err}
		}
		defer resp.Body.Close()

		if err := c.limiter.UpdateFromHeaders(resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
		}

		requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			class := classify(resp.StatusCode, nil)
			errorsTotal.WithLabelValues(string(class)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Upstream request error")

			return &APIError{
				StatusCode: resp.StatusCode,
				Class:      class,
				Message:    resp.Status,
			}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &APIError{Class: ErrorClassNetwork, Message: "read response body", Err: err}
		}

		return nil
	}, func(err error) ErrorClass {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.Class
		}
		return ErrorClassNetwork
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("Upstream request complete")

	return body, nil
}
