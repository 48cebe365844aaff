// File: internal/sonar/client.go
package sonar

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// searchPath is the hotspot search endpoint relative to the server base URL.
const searchPath = "/api/hotspots/search"

// Transport and connection-pool defaults. The workload is a single
// sequential page loop against one host, so the pool is kept small.
const (
	DefaultRequestTimeout      = 30 * time.Second
	DefaultTLSHandshakeTimeout = 5 * time.Second
	DefaultMaxIdleConnsPerHost = 2
	DefaultIdleConnTimeout     = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ClientConfig holds the settings for the hotspot search client.
type ClientConfig struct {
	// BaseURL is the server root, e.g. "http://localhost:9000".
	BaseURL string
	// Token is sent as a bearer Authorization header on every request.
	Token string

	// RequestTimeout bounds each page request end to end. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	// IgnoreTLSErrors disables certificate verification, for servers
	// running with self-signed certificates.
	IgnoreTLSErrors bool

	// RateLimit caps page requests per second. Zero disables throttling.
	// This is request pacing only; failed requests are never retried.
	RateLimit float64

	Logger *zap.Logger
}

// StatusError reports a non-2xx response from the server. Any such
// response is terminal for the whole run.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d for %s", e.StatusCode, e.URL)
}

// Client issues page requests against the hotspot search endpoint.
// It is safe for concurrent use, although the fetch loop is sequential.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a Client from the given configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	transport := &http.Transport{
		TLSHandshakeTimeout: DefaultTLSHandshakeTimeout,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
	if cfg.IgnoreTLSErrors {
		transport.TLSClientConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true,
		}
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn("Failed to configure HTTP/2 transport, falling back to HTTP/1.1", zap.Error(err))
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: base,
		token:   cfg.Token,
		limiter: limiter,
		logger:  logger.Named("sonar_client"),
	}, nil
}

// Search fetches one page of hotspots for the given project. A non-2xx
// response or a body that does not decode as the expected JSON shape is
// a hard failure; there is no retry.
func (c *Client) Search(ctx context.Context, project string, page, pageSize int) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	endpoint := *c.baseURL
	endpoint.Path = searchPath
	q := url.Values{}
	q.Set("p", strconv.Itoa(page))
	q.Set("ps", strconv.Itoa(pageSize))
	q.Set("project", project)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotspot search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: endpoint.String()}
	}

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed search response: %w", err)
	}

	c.logger.Debug("Fetched hotspot page",
		zap.Int("page", page),
		zap.Int("hotspots", len(body.Hotspots)),
		zap.Int("components", len(body.Components)),
	)
	return &body, nil
}
