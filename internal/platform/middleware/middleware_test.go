package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("keeps a well formed client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "form-123.abc_9")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "form-123.abc_9", seen)
		assert.Equal(t, "form-123.abc_9", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces unsafe ids", func(t *testing.T) {
		for _, bad := range []string{"", "a b", "line\nbreak", strings.Repeat("x", MaxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", bad)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.NotEqual(t, bad, seen)
			assert.Len(t, seen, 36)
		}
	})
}

func TestParseClient(t *testing.T) {
	info := ParseClient(chromeOnMac)
	assert.Equal(t, "chrome", info.Browser)
	assert.Contains(t, info.OS, "mac os x")
	assert.False(t, info.Mobile)

	empty := ParseClient("")
	assert.Equal(t, ClientInfo{Browser: "unknown", OS: "unknown"}, empty)
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/onboarding/forms", nil)
	req.Header.Set("User-Agent", chromeOnMac)
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, `"client_browser":"chrome"`)
	assert.Contains(t, out, `"path":"/onboarding/forms"`)

	t.Run("skips healthy probes", func(t *testing.T) {
		buf.Reset()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Zero(t, buf.Len())
	})
}

func TestRecovery(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json accepted", http.MethodPut, "application/json", http.StatusNoContent},
		{"json with charset accepted", http.MethodPost, "application/json; charset=utf-8", http.StatusNoContent},
		{"missing content type accepted", http.MethodPost, "", http.StatusNoContent},
		{"form encoding rejected", http.MethodPut, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"GET is not checked", http.MethodGet, "text/plain", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

type recordingObserver struct {
	endpoints []string
}

func (o *recordingObserver) ObserveEndpointLatency(endpoint string, _ float64) {
	o.endpoints = append(o.endpoints, endpoint)
}

func TestLatency(t *testing.T) {
	obs := &recordingObserver{}
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	Latency(obs, nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/onboarding/forms/abc", nil))
	Latency(obs, func(*http.Request) string { return "/onboarding/forms/{id}" })(next).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/onboarding/forms/abc", nil))

	assert.Equal(t, []string{"/onboarding/forms/abc", "/onboarding/forms/{id}"}, obs.endpoints)

	require.NotPanics(t, func() {
		Latency(nil, nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
