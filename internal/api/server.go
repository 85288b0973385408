// Package api serves the dashboard and the observer WebSocket endpoint.
package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"kmdash/internal/hub"
	"kmdash/internal/inject"
	"kmdash/internal/telemetry"
	"kmdash/internal/web"
)

// Server exposes the event stream and command channel to observers.
type Server struct {
	hub        *hub.Hub
	dispatcher *inject.Dispatcher
	telemetry  *telemetry.Context
	serveUI    bool
	log        zerolog.Logger
}

// NewServer creates an API server.
func NewServer(h *hub.Hub, d *inject.Dispatcher, t *telemetry.Context, serveUI bool, log zerolog.Logger) *Server {
	return &Server{
		hub:        h,
		dispatcher: d,
		telemetry:  t,
		serveUI:    serveUI,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// Start listens on the given port and serves until the listener fails.
// Blocking.
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	if s.serveUI {
		mux.Handle("/", web.Handler())
	}

	addr := fmt.Sprintf("0.0.0.0:%d", port)
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.log.Info().Str("addr", addr).Msg("server listening")

	server := &http.Server{
		Handler: s.headerMiddleware(s.recoverMiddleware(mux)),
	}
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// recoverMiddleware prevents a handler panic from taking the server down.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error().Any("panic", err).Str("path", r.URL.Path).Msg("handler panic recovered")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// headerMiddleware adds the permissive CORS and no-cache headers the
// dashboard relies on during development.
func (s *Server) headerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles GET /health for monitoring.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
