package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"eventsmd/internal/config"
	"eventsmd/internal/convert"
	appLog "eventsmd/internal/log"
	"eventsmd/internal/model"
	"eventsmd/internal/pipeline"
)

// Server exposes the most recent pipeline result over HTTP. It never
// triggers a fetch itself; the scheduler pushes results via Update.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	mu        sync.RWMutex
	last      *pipeline.Result
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Update replaces the served result.
func (s *Server) Update(res pipeline.Result) {
	s.mu.Lock()
	s.last = &res
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *Server) snapshot() (*pipeline.Result, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.updatedAt
}

// Handler returns the root handler, wrapped with Basic Auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled")
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="eventsmd", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe serves on s.cfg.Listen until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/events.md", s.handleMarkdown)
	s.mux.HandleFunc("/api/events", s.handleEvents)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleMarkdown serves the last rendered document verbatim.
func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	last, updatedAt := s.snapshot()
	if last == nil {
		http.Error(w, "no events rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(last.Markdown))
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Now       time.Time  `json:"now"`
	NextMonth time.Time  `json:"next_month"`
	UpdatedAt time.Time  `json:"updated_at"`
	Current   []eventDTO `json:"current"`
	Future    []eventDTO `json:"future"`
}

// eventDTO is a JSON-friendly view of model.Event.
type eventDTO struct {
	UID     string     `json:"uid,omitempty"`
	Summary string     `json:"summary"`
	Link    string     `json:"link"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	Label   string     `json:"label"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	last, updatedAt := s.snapshot()
	if last == nil {
		writeError(w, http.StatusServiceUnavailable, "no events rendered yet")
		return
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Now:       last.Agenda.Now,
		NextMonth: last.Agenda.NextMonth,
		UpdatedAt: updatedAt,
		Current:   toDTOs(last.Agenda.Current),
		Future:    toDTOs(last.Agenda.Future),
	})
}

func toDTOs(events []model.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO{
			UID:     ev.UID,
			Summary: ev.Summary,
			Link:    ev.Link,
			Start:   ev.Start,
			End:     ev.End,
			Label:   convert.DateRange(ev.Start, ev.End),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
