// Package server exposes the table service over HTTP and websockets.
// Sessions are created and joined over REST; play happens on a per-seat
// websocket that streams STATE, EVENT and ERROR messages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/session"
)

// Server wires the chi router, the websocket upgrader and the game service
type Server struct {
	cfg      *ServerConfig
	logger   *log.Logger
	service  *GameService
	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// NewServer builds the HTTP server around an existing game service
func NewServer(cfg *ServerConfig, logger *log.Logger, service *GameService) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger.WithPrefix("http"),
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Post("/tables", s.handleCreate)
	r.Post("/tables/{id}/join", s.handleJoin)
	r.Post("/tables/{id}/start", s.handleStart)
	r.Post("/tables/{id}/next-hand", s.handleNextHand)
	r.Get("/ws/{id}/{seat}", s.handleWS)

	s.httpSrv = &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websockets manage their own deadlines
	}
	return s
}

// SetAddr overrides the configured listen address before Start
func (s *Server) SetAddr(addr string) {
	s.httpSrv.Addr = addr
}

// Start runs the HTTP server until it fails or is shut down
func (s *Server) Start() error {
	s.logger.Info("Listening", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.service.SaveReplay(); err != nil {
		s.logger.Error("Failed to save replay buffer", "error", err)
	}
	return s.httpSrv.Shutdown(ctx)
}

type createResponse struct {
	SessionID string `json:"session_id"`
	Seat      string `json:"seat"`
}

type joinResponse struct {
	Seat string `json:"seat"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, seat, err := s.service.CreateTable(userKey(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{SessionID: id, Seat: seat})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	seat, err := s.service.JoinTable(chi.URLParam(r, "id"), userKey(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{Seat: seat})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.service.StartTable(chi.URLParam(r, "id"), seatParam(r)); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"started": true})
}

func (s *Server) handleNextHand(w http.ResponseWriter, r *http.Request) {
	if err := s.service.NextHand(chi.URLParam(r, "id"), seatParam(r)); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"started": true})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	seat := chi.URLParam(r, "seat")

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, id, seat, s.logger, s.service)
	conn.Start()
	if err := s.service.Attach(conn); err != nil {
		_ = conn.Send(NewErrorMessage(err))
		_ = conn.Close()
	}
}

// userKey identifies a player across reconnects. Clients pass any opaque
// token; an empty key still works but loses seat reclaim.
func userKey(r *http.Request) string {
	if k := r.Header.Get("X-User-Key"); k != "" {
		return k
	}
	return r.URL.Query().Get("user_key")
}

func seatParam(r *http.Request) string {
	return r.URL.Query().Get("seat")
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	var verr *game.ValidationError
	var serr *game.SetupError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrTableFull):
		status, code = http.StatusConflict, "table_full"
	case errors.Is(err, session.ErrEnded):
		status, code = http.StatusConflict, "table_ended"
	case errors.Is(err, session.ErrNotHost):
		status, code = http.StatusForbidden, "not_host"
	case errors.As(err, &verr):
		status, code = http.StatusUnprocessableEntity, verr.Code
	case errors.As(err, &serr):
		status, code = http.StatusBadRequest, "setup_error"
	}

	writeJSON(w, status, ErrorPayload{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
