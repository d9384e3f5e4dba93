//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// TestContext holds state between test steps.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	FormID           string
}

// formBody mirrors the form representation returned by the API.
type formBody struct {
	ID                      string            `json:"id"`
	Values                  map[string]string `json:"values"`
	Errors                  map[string]string `json:"errors"`
	IsSubmitting            bool              `json:"isSubmitting"`
	IsValidatingCorporation bool              `json:"isValidatingCorporation"`
	Submitted               bool              `json:"submitted"`
}

type submitBody struct {
	Submitted bool     `json:"submitted"`
	Form      formBody `json:"form"`
}

func NewTestContext() *TestContext {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &TestContext{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (tc *TestContext) formPath(suffix string) string {
	return "/onboarding/forms/" + tc.FormID + suffix
}

// Do sends a request with an optional JSON body and stores the response.
func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// LastForm decodes the form from the last response, unwrapping submit responses.
func (tc *TestContext) LastForm() (formBody, error) {
	var submit submitBody
	if err := json.Unmarshal(tc.LastResponseBody, &submit); err == nil && submit.Form.ID != "" {
		return submit.Form, nil
	}
	var form formBody
	if err := json.Unmarshal(tc.LastResponseBody, &form); err != nil {
		return formBody{}, fmt.Errorf("failed to unmarshal form: %w", err)
	}
	return form, nil
}

func (tc *TestContext) LastSubmit() (submitBody, error) {
	var submit submitBody
	if err := json.Unmarshal(tc.LastResponseBody, &submit); err != nil {
		return submitBody{}, fmt.Errorf("failed to unmarshal submit response: %w", err)
	}
	return submit, nil
}
