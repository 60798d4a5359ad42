package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dyastin0/wormhole-client/internal/ui"
)

// Server wraps the HTTP server that exposes /metrics for Prometheus to
// scrape. Starting it is opt-in (--metrics), matching the control
// handshake's FlagMetrics.
type Server struct {
	server *http.Server
}

// NewServer builds a metrics server bound to addr. It is not started until
// Start is called.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start begins serving metrics in the background.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ui.LogStatus("err", "metrics server: "+err.Error())
		}
	}()
}

// Shutdown stops the metrics server, bounded by a short timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
