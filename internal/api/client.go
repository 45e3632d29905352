package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Endpoint names under the API base path
const (
	EndpointExperiments    = "experiments"
	EndpointSubjects       = "subjects"
	EndpointGetSessionData = "getSessionData"
)

// Params holds scalar query parameters. Nil and empty-string values are
// omitted from the request rather than sent empty.
type Params map[string]any

// Encode renders the parameters as a URL query (without the leading "?").
func (p Params) Encode() string {
	values := url.Values{}
	for k, v := range p {
		if s, ok := paramString(v); ok {
			values.Set(k, s)
		}
	}
	return values.Encode()
}

func paramString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case *string:
		if t == nil || *t == "" {
			return "", false
		}
		return *t, true
	case fmt.Stringer:
		s := t.String()
		return s, s != ""
	default:
		return fmt.Sprint(t), true
	}
}

// Client issues read requests against the record store's HTTP API.
// Every call is a single attempt; callers decide whether to retry.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	newID   func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no local timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

// WithLogger attaches a zap logger for request tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client rooted at baseURL (e.g. ".../functions/v1").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the request URL for an endpoint and its parameters
func (c *Client) URL(endpoint string, params Params) string {
	u := c.baseURL + "/" + endpoint
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Get performs a GET request and returns the JSON body on success.
func (c *Client) Get(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	requestID := c.newID()
	log := c.logger.With(zap.String("endpoint", endpoint), zap.String("request_id", requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, params), nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("reading body failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	log.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(endpoint, resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w: body is not JSON", endpoint, ErrMalformedResponse)
	}
	return json.RawMessage(body), nil
}
