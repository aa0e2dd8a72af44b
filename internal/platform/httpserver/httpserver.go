package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server for the callback and entitlement surfaces.
// Requests are small JSON bodies from the storefront and from clients, so
// the read timeouts are tight; write timeout is left to the router's
// per-request timeout middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
