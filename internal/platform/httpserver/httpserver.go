package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server for the onboarding API. Write timeout leaves room
// for a submission that waits on the upstream profile API.
func New(addr string, handler http.Handler, upstreamTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*upstreamTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
