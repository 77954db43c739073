package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// ReadTimeout and WriteTimeout bound each request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SwipeThreshold is the minimum drag distance that counts as a move.
	SwipeThreshold float64

	// Logger receives request and session events. Nil uses a default
	// stderr logger.
	Logger *log.Logger
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        ":8080",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		SwipeThreshold: core.DefaultSwipeThreshold,
	}
}

// Server is the REST and websocket front end for a session manager.
type Server struct {
	config  ServerConfig
	manager *Manager
	hub     *Hub
	store   *storage.Store
	router  *mux.Router
	logger  *log.Logger
}

// NewServer wires the routes. Session changes made through the manager
// are pushed to websocket clients. store may be nil.
func NewServer(manager *Manager, store *storage.Store, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "power2048-http",
		})
	}
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = core.DefaultSwipeThreshold
	}

	s := &Server{
		config:  cfg,
		manager: manager,
		hub:     NewHub(logger),
		store:   store,
		router:  mux.NewRouter(),
		logger:  logger,
	}
	manager.SetOnChange(s.hub.BroadcastState)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/scores", s.handleScores).Methods("GET")

	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/ws", s.handleWebSocket).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the websocket hub. Run it before serving websocket routes
// with a handler other than ListenAndServe.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe starts the hub and the HTTP server and blocks until
// SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	httpServer := &http.Server{
		Addr:         s.config.Address,
		Handler:      s,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("starting HTTP server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		s.manager.Close()
		return err
	case <-done:
	}

	s.logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	s.manager.Close()
	return httpServer.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

// loggingMiddleware logs each request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, power2048.ErrInvalidBase),
		errors.Is(err, power2048.ErrInvalidMode),
		errors.Is(err, engine.ErrUnknownDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(w http.ResponseWriter, err error) {
	respondError(w, errorStatus(err), err.Error())
}

// parseModeParam parses an optional mode; empty means unset.
func parseModeParam(raw string) (power2048.Mode, error) {
	if raw == "" {
		return "", nil
	}
	return power2048.ParseMode(raw)
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base   int    `json:"base,omitempty"`
		Mode   string `json:"mode,omitempty"`
		Player string `json:"player,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	mode, err := parseModeParam(req.Mode)
	if err != nil {
		respondErr(w, err)
		return
	}

	view, err := s.manager.Create(req.Base, mode, req.Player)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.Delete(id); err != nil {
		respondErr(w, err)
		return
	}
	s.hub.CloseSession(id)
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// moveRequest carries either a direction name or a swipe vector.
type moveRequest struct {
	Direction string   `json:"direction,omitempty"`
	DX        *float64 `json:"dx,omitempty"`
	DY        *float64 `json:"dy,omitempty"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var dir engine.Direction
	switch {
	case req.Direction != "":
		d, err := engine.ParseDirection(req.Direction)
		if err != nil {
			respondErr(w, err)
			return
		}
		dir = d

	case req.DX != nil || req.DY != nil:
		var dx, dy float64
		if req.DX != nil {
			dx = *req.DX
		}
		if req.DY != nil {
			dy = *req.DY
		}
		action, ok := core.SwipeDirection(dx, dy, s.config.SwipeThreshold)
		if !ok {
			// Too short to count as a move
			view, err := s.manager.Get(id)
			if err != nil {
				respondErr(w, err)
				return
			}
			respondJSON(w, http.StatusOK, MoveResponse{State: view})
			return
		}
		dir, _ = power2048.DirectionFor(action)

	default:
		respondError(w, http.StatusBadRequest, "direction or dx/dy required")
		return
	}

	res, err := s.manager.Move(id, dir)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base *int   `json:"base,omitempty"`
		Mode string `json:"mode,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var mode *power2048.Mode
	if req.Mode != "" {
		m, err := power2048.ParseMode(req.Mode)
		if err != nil {
			respondErr(w, err)
			return
		}
		mode = &m
	}

	view, err := s.manager.Reset(mux.Vars(r)["id"], req.Base, mode)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := s.manager.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	s.hub.ServeWS(w, r, id, view)
}

// handleScores lists the best and most recent finished games of one
// variant: GET /api/scores?base=3&mode=60&limit=10.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "score storage unavailable")
		return
	}

	query := r.URL.Query()
	base := s.manager.base
	if raw := query.Get("base"); raw != "" {
		b, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid base")
			return
		}
		base = b
	}
	if err := power2048.ValidateBase(base); err != nil {
		respondErr(w, err)
		return
	}

	mode := s.manager.mode
	if raw := query.Get("mode"); raw != "" {
		m, err := power2048.ParseMode(raw)
		if err != nil {
			respondErr(w, err)
			return
		}
		mode = m
	}

	limit := 10
	if raw := query.Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}

	stats, err := s.store.Stats(base, string(mode))
	if err != nil {
		respondErr(w, err)
		return
	}
	top, err := s.store.TopScores(base, string(mode), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	recent, err := s.store.RecentScores(base, string(mode), limit)
	if err != nil {
		respondErr(w, err)
		return
	}

	best, _ := power2048.ParseHighScore(storedValue(s.store, power2048.HighScoreKey(base, mode)))
	respondJSON(w, http.StatusOK, map[string]any{
		"base":       base,
		"mode":       mode,
		"high_score": best,
		"stats":      stats,
		"top":        top,
		"recent":     recent,
	})
}

// storedValue reads a key, treating read errors as a missing value.
func storedValue(store core.KeyValueStore, key string) string {
	v, err := store.Get(key)
	if err != nil {
		return ""
	}
	return v
}
