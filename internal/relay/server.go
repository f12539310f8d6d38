// Package relay implements the JSON relay between browser-style chat
// clients and an upstream chat-completion API: request-shape
// normalization, payload caps, CORS, and a WebSocket endpoint that runs a
// full server-side session.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tardislabs/tardis/internal/provider"
	"github.com/tardislabs/tardis/internal/session"
)

// Server is the relay HTTP server.
type Server struct {
	config     Config
	provider   provider.Provider
	sessionCfg session.Config
	logger     *slog.Logger
	metrics    *Metrics
	httpServer *http.Server
}

// NewServer creates a relay Server forwarding to the given provider.
// sessionCfg configures the per-connection sessions behind /ws.
func NewServer(cfg Config, p provider.Provider, sessionCfg session.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.defaults()
	return &Server{
		config:     cfg,
		provider:   p,
		sessionCfg: sessionCfg,
		logger:     logger.With("component", "relay"),
		metrics:    NewMetrics(),
	}
}

// Router constructs the chi mux with all routes wired. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/api/chat", s.handleChat)
	r.Get("/ws", s.handleWS)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Bind,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("relay listening", "bind", s.config.Bind)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleChat forwards a normalized request upstream and returns {reply}.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRequest("bad_request")
		s.writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	completion, ok := Normalize(req)
	if !ok {
		s.metrics.RecordRequest("bad_request")
		s.writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Missing message"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(ctx, completion)
	s.metrics.ObserveUpstream(time.Since(start).Seconds())

	if err != nil {
		s.metrics.RecordRequest("upstream_error")
		s.logger.Warn("upstream forward failed", "error", err)
		s.writeError(w, http.StatusBadGateway, ErrorResponse{
			Error:  "Upstream error",
			Status: http.StatusBadGateway,
			Detail: err.Error(),
		})
		return
	}

	s.metrics.RecordRequest("ok")
	s.writeJSON(w, http.StatusOK, ChatResponse{Reply: resp.Reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": s.provider.ModelName()})
}

// corsMiddleware answers preflight requests and stamps the allowed origin
// on every response.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := s.config.AllowedOrigin
		if allowed == "*" {
			if origin := r.Header.Get("Origin"); origin != "" {
				allowed = origin
			}
		}
		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	s.writeJSON(w, status, resp)
}
