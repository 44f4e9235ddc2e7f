package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/montplusa/gobang/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server exposes one human-vs-agent game over HTTP and websocket
type Server struct {
	controller *Controller
	hub        *Hub
	store      *store.Store
}

func New(controller *Controller, st *store.Store) *Server {
	return &Server{controller: controller, hub: NewHub(), store: st}
}

// Run drives the websocket hub until ctx is done
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx.Done())
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/start", s.handleStart)
	r.Post("/api/move", s.handleMove)
	r.Get("/api/hints", s.handleHints)
	r.Get("/api/games", s.handleGames)
	r.Get("/api/games/{id}", s.handleGame)
	r.Get("/api/stats", s.handleStats)
	r.Get("/ws", s.serveWS)
	return r
}

type startRequest struct {
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	Goal  int         `json:"goal"`
	Human game.Player `json:"human"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	req := startRequest{Human: game.PlayerOne}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
	}
	opts := game.Options{Rows: req.Rows, Cols: req.Cols, Goal: req.Goal}
	if err := s.controller.Start(r.Context(), opts, req.Human); err != nil {
		writeError(w, err)
		return
	}
	s.respond(w)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := s.controller.HumanMove(r.Context(), req.Row, req.Col); err != nil {
		writeError(w, err)
		return
	}
	s.respond(w)
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	hints, err := s.controller.Hints()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hints)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store disabled"})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	games, err := s.store.RecentGames(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store disabled"})
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	rec, err := s.store.Game(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store disabled"})
		return
	}
	counts, err := s.store.WinCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) publish() StatusResponse {
	status := s.controller.Status()
	s.hub.Publish(status)
	return status
}

// respond answers the request with the new status and pushes it to websocket clients
func (s *Server) respond(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.publish())
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket-upgrade-failed")
		return
	}
	defer conn.Close()

	client := &Client{hub: s.hub, send: make(chan []byte, 32)}
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.controller.Status())})

	go func() {
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket-write-stopped")
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.controller.Status())})
		case "move":
			var req moveRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": "invalid payload"})})
				continue
			}
			if err := s.controller.HumanMove(r.Context(), req.Row, req.Col); err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": err.Error()})})
				continue
			}
			s.publish()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	var moveErr *game.InvalidMoveError
	var cfgErr *game.ConfigurationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &moveErr), errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNoGame), errors.Is(err, ErrNotYourTurn):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request-failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
