package httpserver

import (
	"net/http"
	"time"

	"linkcook-go/internal/config"
)

// New builds the server. No write timeout is set because live feed
// connections are long-lived; REST routes carry their own request timeout.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
