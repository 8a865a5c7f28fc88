// Package server exposes the orchestrator over HTTP and WebSocket for UI
// clients. It is a thin serialization layer: every endpoint ultimately calls
// ProcessCommand and writes the envelope as JSON.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
	"github.com/swaralabs/swara/internal/orchestrator"
)

// Server serves the assistant API.
type Server struct {
	orch     *orchestrator.Orchestrator
	registry *agent.Registry
	httpSrv  *http.Server
	log      zerolog.Logger
}

// New creates a Server listening on addr.
func New(addr string, orch *orchestrator.Orchestrator, registry *agent.Registry) *Server {
	s := &Server{
		orch:     orch,
		registry: registry,
		log:      logging.Component("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/agents", s.handleAgents)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // commands may block on LLM calls
	}
	return s
}

// ListenAndServe blocks until the context is cancelled or the listener fails,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// commandRequest is the POST /api/command body.
type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	resp := s.orch.ProcessCommand(r.Context(), req.Command)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": s.registry.Names(),
		"count":  s.registry.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
