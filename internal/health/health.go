// Package health exposes liveness and readiness for the gateway.
//
// Docker and Kubernetes probe /healthz and /readyz on a dedicated port so
// that health traffic never competes with capability uploads. The same
// readiness state is optionally published through the standard gRPC health
// service for meshes that prefer it.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	grpchealth "google.golang.org/grpc/health"
)

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port     int
	grpcPort int

	ready atomic.Bool

	mu           sync.RWMutex
	capabilities []string

	server     *http.Server
	grpcHealth *grpchealth.Server
}

// New creates a new health check server. A zero grpcPort leaves the gRPC
// health service disabled.
func New(port, grpcPort int) *Server {
	s := &Server{port: port, grpcPort: grpcPort, grpcHealth: grpchealth.NewServer()}
	s.SetReady(false)
	return s
}

// SetReady marks the gateway as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
	s.setGRPCStatus(ready)
}

// SetCapabilities records which capabilities have a configured backend.
// They are listed in the /readyz body.
func (s *Server) SetCapabilities(names []string) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	s.mu.Lock()
	s.capabilities = sorted
	s.mu.Unlock()
}

type status struct {
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Handler returns the probe routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Liveness only says the process is serving HTTP.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, status{Status: "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, status{Status: "not_ready"})
			return
		}
		s.mu.RLock()
		caps := s.capabilities
		s.mu.RUnlock()
		writeStatus(w, http.StatusOK, status{Status: "ok", Capabilities: caps})
	})

	return mux
}

func writeStatus(w http.ResponseWriter, code int, body status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
