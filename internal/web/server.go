// Package web exposes the game orchestrator over HTTP and pushes game events
// over WebSocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/politicard/politicard/internal/game"
)

// pushInterval is how often the WebSocket loop checks for new events.
const pushInterval = 250 * time.Millisecond

// Server is the HTTP and WebSocket front of the orchestrator.
type Server struct {
	orch *game.Orchestrator
	log  *logrus.Logger
	mux  *http.ServeMux
}

// NewServer wires the routes.
func NewServer(orch *game.Orchestrator, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{orch: orch, log: log, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /api/games", s.handleCreate)
	s.mux.HandleFunc("GET /api/games", s.handleList)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleState)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoin)
	s.mux.HandleFunc("POST /api/games/{id}/redraw", s.handleRedraw)
	s.mux.HandleFunc("POST /api/games/{id}/ready", s.handleReady)
	s.mux.HandleFunc("POST /api/games/{id}/action", s.handleAction)
	s.mux.HandleFunc("POST /api/games/{id}/ack", s.handleAck)
	s.mux.HandleFunc("POST /api/games/{id}/inject", s.handleInject)
	s.mux.HandleFunc("POST /api/games/{id}/scenario", s.handleScenario)
	s.mux.HandleFunc("GET /ws/games/{id}", s.handleWebSocket)
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("server listening")
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GameID string `json:"gameId"`
	}
	decodeBody(r, &body)
	gs, err := s.orch.CreateGame(r.Context(), body.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"gameId": gs.ID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.orch.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": ids})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	gs, err := s.orch.State(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if viewer := r.URL.Query().Get("playerId"); viewer != "" {
		writeJSON(w, http.StatusOK, NewStateView(gs, viewer))
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &body); err != nil || body.PlayerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.Join(r.Context(), r.PathValue("id"), body.PlayerID, nil)
	s.respond(w, gs, body.PlayerID, err)
}

func (s *Server) handleRedraw(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &body); err != nil || body.PlayerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.Redraw(r.Context(), r.PathValue("id"), body.PlayerID)
	s.respond(w, gs, body.PlayerID, err)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &body); err != nil || body.PlayerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.Ready(r.Context(), r.PathValue("id"), body.PlayerID)
	s.respond(w, gs, body.PlayerID, err)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var body ActionRequest
	if err := decodeBody(r, &body); err != nil || body.PlayerID == "" {
		http.Error(w, "playerId and action required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.HandleAction(r.Context(), r.PathValue("id"), body.PlayerID, body.Action)
	s.respond(w, gs, body.PlayerID, err)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"playerId"`
		EventID  string `json:"eventId"`
	}
	if err := decodeBody(r, &body); err != nil || body.EventID == "" {
		http.Error(w, "eventId required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.AcknowledgeEvent(r.Context(), r.PathValue("id"), body.PlayerID, body.EventID)
	s.respond(w, gs, body.PlayerID, err)
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var gs game.GameState
	if err := decodeBody(r, &gs); err != nil {
		http.Error(w, "invalid game state", http.StatusBadRequest)
		return
	}
	out, err := s.orch.Inject(r.Context(), r.PathValue("id"), &gs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil || body.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	gs, err := s.orch.Scenario(r.Context(), r.PathValue("id"), body.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// respond sends the viewer's state projection. A rejected action still
// returns the state, with the error code alongside; the rejection already
// lives in the event stream.
func (s *Server) respond(w http.ResponseWriter, gs *game.GameState, viewer string, err error) {
	if err != nil && gs == nil {
		s.writeError(w, err)
		return
	}
	out := map[string]any{
		"state": NewStateView(gs, viewer),
	}
	status := http.StatusOK
	if err != nil {
		out["error"] = map[string]string{
			"code":    string(game.CodeOf(err)),
			"message": err.Error(),
		}
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := game.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case game.ErrCodeGameNotFound:
		status = http.StatusNotFound
	case game.ErrCodeInvalidActionType, game.ErrCodeInvalidPhase:
		status = http.StatusConflict
	case "":
	default:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}

// handleWebSocket streams new game events to the client. The client may send
// {"type":"ack","playerId":...,"eventId":...} frames to mark events processed.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	go s.readAcks(ctx, conn, gameID)

	counter := 0
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		gs, err := s.orch.State(ctx, gameID)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "game gone")
			return
		}
		for _, ev := range gs.Events.Since(counter) {
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
			counter = eventCounter(ev.ID, counter)
		}
		if gs.Phase == game.PhaseGameEnd {
			conn.Close(websocket.StatusNormalClosure, "game ended")
			return
		}
	}
}

func (s *Server) readAcks(ctx context.Context, conn *websocket.Conn, gameID string) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg struct {
			Type     string `json:"type"`
			PlayerID string `json:"playerId"`
			EventID  string `json:"eventId"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "ack" {
			continue
		}
		if _, err := s.orch.AcknowledgeEvent(ctx, gameID, msg.PlayerID, msg.EventID); err != nil {
			s.log.WithError(err).Debug("websocket ack rejected")
		}
	}
}

// eventCounter extracts the sequence number from an event ID so the push
// loop can resume after it. Malformed IDs keep the previous counter.
func eventCounter(id string, prev int) int {
	n, ok := parseEventCounter(id)
	if !ok {
		return prev
	}
	return n
}

func parseEventCounter(id string) (int, bool) {
	// IDs look like event_{timestamp}_{counter}.
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '_' {
			n := 0
			for _, c := range id[i+1:] {
				if c < '0' || c > '9' {
					return 0, false
				}
				n = n*10 + int(c-'0')
			}
			return n, true
		}
	}
	return 0, false
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
