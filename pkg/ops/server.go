package ops

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Server is the operator HTTP side channel, serving /healthz and /metrics
// on its own listener, independent of the telnet transport.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the mux and wraps it in an *http.Server bound to addr.
// It does not start listening; call Start.
func NewServer(addr string, metrics *Metrics, health *HealthChecker) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", health.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start begins serving in a background goroutine, logging (not panicking)
// if Serve exits for a reason other than a graceful Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("ops: binding %s: %w", s.httpServer.Addr, err)
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logrus.WithFields(logrus.Fields{
				"function": "Start",
				"package":  "ops",
				"error":    err,
			}).Error("ops server stopped unexpectedly")
		}
	}()
	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"package":  "ops",
		"address":  ln.Addr().String(),
	}).Info("ops server listening")
	return nil
}

// Shutdown gracefully stops the server, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// AddrFor renders a MetricsPort into a bind address, disabling the server
// with an empty string when port is <= 0.
func AddrFor(port int) string {
	if port <= 0 {
		return ""
	}
	return fmt.Sprintf(":%d", port)
}
