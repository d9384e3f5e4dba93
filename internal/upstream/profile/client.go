// Package profile is the HTTP client for the remote profile-details API.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"onboard/internal/onboarding/form"
	"onboard/internal/upstream"
)

// ServiceName labels errors and token audiences for this upstream.
const ServiceName = "profile-api"

// DefaultFailureMessage is used when the API refuses a submission without saying why.
const DefaultFailureMessage = "Submission failed"

const maxResponseBytes = 64 << 10

// Client submits completed onboarding forms to POST {base}/profile-details.
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

type failurePayload struct {
	Message string `json:"message"`
}

// Submit posts the four field values. Any 2xx is success. Other statuses come
// back as an upstream.ErrorRejected carrying the API's message, or
// DefaultFailureMessage when the body has none.
func (c *Client) Submit(ctx context.Context, values form.Values) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profile-details", bytes.NewReader(payload))
	if err != nil {
		return upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := c.credentials.Apply(req, ServiceName); err != nil {
		return upstream.NewError(upstream.ErrorInternal, ServiceName, "failed to authorize request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return upstream.TransportError(ctx, ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	message := DefaultFailureMessage
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr == nil {
		var failure failurePayload
		if json.Unmarshal(body, &failure) == nil && strings.TrimSpace(failure.Message) != "" {
			message = failure.Message
		}
	}

	e := upstream.NewError(upstream.ErrorRejected, ServiceName, message, nil)
	e.StatusCode = resp.StatusCode
	if resp.StatusCode >= http.StatusInternalServerError {
		e.Underlying = fmt.Errorf("status %d", resp.StatusCode)
	}
	return e
}
