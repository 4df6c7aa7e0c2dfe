// Package mockbackend serves canned chat replies over the same HTTP contract
// as the data-assistant backend, for demos and end-to-end tests.
package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
)

// ChatRequest is the body accepted by POST /chat
type ChatRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"session_id,omitempty"`
	ForceSQL  bool   `json:"force_sql,omitempty"`
}

type chatPayload struct {
	Output    string          `json:"output"`
	TableData []models.Record `json:"table_data"`
	GeoData   []models.Record `json:"geo_data"`
	SQLQuery  *string         `json:"sql_query"`
}

// Server is a chi router answering /chat from a fixture set
type Server struct {
	router   *chi.Mux
	fixtures *FixtureSet

	mu       sync.Mutex
	requests []ChatRequest
}

// NewServer builds the router. allowedOrigins configures CORS for browser
// frontends; empty allows any origin.
func NewServer(fixtures *FixtureSet, allowedOrigins ...string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{router: r, fixtures: fixtures}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleHealth)
	s.router.Post("/chat", s.handleChat)
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler { return s.router }

// Requests returns the chat requests received so far
func (s *Server) Requests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "floatchat demo backend",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "input is required"})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	fx := s.fixtures.Find(req.Input)
	logging.Logger().Info("demo chat", "fixture", fx.Name, "session", req.SessionID, "force_sql", req.ForceSQL)

	if fx.Delay > 0 {
		select {
		case <-time.After(fx.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if fx.StatusCode() >= http.StatusBadRequest {
		writeJSON(w, fx.StatusCode(), map[string]string{"detail": fx.Output})
		return
	}

	payload := chatPayload{
		Output:    fx.Output,
		TableData: fx.Table,
		GeoData:   fx.Geo,
	}
	if fx.SQLQuery != "" {
		payload.SQLQuery = &fx.SQLQuery
	}

	if fx.Wrapped {
		writeJSON(w, fx.StatusCode(), map[string]any{"data": payload})
		return
	}
	writeJSON(w, fx.StatusCode(), payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
