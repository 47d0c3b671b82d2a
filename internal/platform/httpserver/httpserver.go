// Package httpserver owns server construction so the timeouts live in one
// place.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. ReadHeaderTimeout guards against slow-header
// clients. No WriteTimeout is set: registration blocks on the citizen
// registry round trip, which carries its own client timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
