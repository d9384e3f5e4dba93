// Package corporation is the HTTP client for the remote corporation registry.
package corporation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"onboard/internal/corporation/models"
	"onboard/internal/upstream"
)

// ServiceName labels errors and token audiences for this upstream.
const ServiceName = "corporation-registry"

const maxResponseBytes = 64 << 10

// Client looks up corporation numbers at GET {base}/corporation-number/{number}.
type Client struct {
	baseURL     string
	credentials upstream.Credentials
	client      upstream.HTTPDoer
	timeout     time.Duration
}

// Option configures the Client.
type Option func(*Client)

func WithHTTPClient(doer upstream.HTTPDoer) Option {
	return func(c *Client) {
		c.client = doer
	}
}

func WithCredentials(creds upstream.Credentials) Option {
	return func(c *Client) {
		c.credentials = creds
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// wireResult mirrors the registry payload. Valid is a pointer so a body
// without the field is told apart from {"valid": false}.
type wireResult struct {
	Valid             *bool  `json:"valid"`
	Message           string `json:"message"`
	CorporationNumber string `json:"corporationNumber"`
}

// Lookup asks the registry about one number. A JSON body carrying "valid" is a
// result whether the status is 2xx or 4xx; anything else is a categorized
// *upstream.Error.
func (c *Client) Lookup(ctx context.Context, number string) (*models.LookupResult, error) {
	endpoint := fmt.Sprintf("%s/corporation-number/%s", c.baseURL, url.PathEscape(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.credentials.Apply(req, ServiceName); err != nil {
		return nil, upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to authorize request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, upstream.TransportError(ctx, ServiceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstream.NewError(upstream.ErrorBadData, ServiceName, "failed to read response", err)
	}

	if statusErr := categorizeStatus(resp.StatusCode); statusErr != nil {
		statusErr.StatusCode = resp.StatusCode
		return nil, statusErr
	}

	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		e := upstream.NewError(upstream.ErrorBadData, ServiceName, "failed to parse response", err)
		e.StatusCode = resp.StatusCode
		return nil, e
	}
	if wire.Valid == nil {
		e := upstream.NewError(upstream.ErrorContractMismatch, ServiceName,
			fmt.Sprintf("response without valid field (status %d)", resp.StatusCode), nil)
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	return &models.LookupResult{
		Valid:             *wire.Valid,
		Message:           wire.Message,
		CorporationNumber: wire.CorporationNumber,
	}, nil
}

// categorizeStatus handles statuses that never carry a lookup result.
func categorizeStatus(status int) *upstream.Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return upstream.NewError(upstream.ErrorAuthentication, ServiceName,
			fmt.Sprintf("authentication failed: %d", status), nil)
	case status == http.StatusTooManyRequests:
		return upstream.NewError(upstream.ErrorRateLimited, ServiceName, "rate limit exceeded", nil)
	case status >= http.StatusInternalServerError:
		return upstream.NewError(upstream.ErrorOutage, ServiceName,
			fmt.Sprintf("registry unavailable: %d", status), nil)
	case status < http.StatusOK || (status >= http.StatusMultipleChoices && status < http.StatusBadRequest):
		return upstream.NewError(upstream.ErrorContractMismatch, ServiceName,
			fmt.Sprintf("unexpected status: %d", status), nil)
	}
	return nil
}

// Health probes the registry base URL. Any HTTP answer below 500 counts as reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to create request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return upstream.TransportError(ctx, ServiceName, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return upstream.NewError(upstream.ErrorOutage, ServiceName,
			fmt.Sprintf("unhealthy status: %d", resp.StatusCode), nil)
	}
	return nil
}
