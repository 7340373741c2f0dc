// Package server exposes the chat pipeline over HTTP. The endpoint is thin
// glue: it extracts the latest user message and returns whatever the
// pipeline replies. Internal failures never surface here; the pipeline
// already absorbed them into a safe reply, so /api/chat answers 200 for
// every well-formed request.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"portfoliochat/internal/service"
)

// Replier is the server-facing subset of the chat service.
type Replier interface {
	Reply(ctx context.Context, query string) service.Answer
	Greeting() string
}

// Message is one turn of the caller-supplied conversation window.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Server serves the chat API.
type Server struct {
	svc    Replier
	logger *slog.Logger
}

// New creates a Server over the given chat service.
func New(svc Replier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("chat server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	query := lastUserMessage(req.Messages)
	if query == "" {
		http.Error(w, `{"error":"no user message"}`, http.StatusBadRequest)
		return
	}

	ans := s.svc.Reply(r.Context(), query)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Reply: ans.Reply})
}

// lastUserMessage returns the content of the most recent user turn in the
// caller's conversation window.
func lastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" && msgs[i].Content != "" {
			return msgs[i].Content
		}
	}
	return ""
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}
