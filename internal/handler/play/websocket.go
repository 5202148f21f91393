// Package play is the game surface: one long-lived websocket per player,
// addressed by game id at connect time.
package play

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tictacgo/backend/internal/service/arena"
)

// Close codes sent before dropping a connection that cannot be bound.
const (
	CloseGameNotFound = 4000
	CloseGameFull     = 4001
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Handler upgrades connections and routes inbound game messages.
type Handler struct {
	arenaSvc *arena.Service
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(arenaSvc *arena.Service, log zerolog.Logger) *Handler {
	return &Handler{
		arenaSvc: arenaSvc,
		log:      log.With().Str("component", "play").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/game/{gameID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type     string `json:"type"`
	Position *int   `json:"position,omitempty"`
}

// handleWebSocket runs one connection from upgrade to close: bind a role
// (or refuse with a distinct close code), then read messages to
// completion one at a time until the peer goes away.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	session, err := h.arenaSvc.Get(gameID)
	if err != nil {
		h.refuse(conn, CloseGameNotFound, "Game not found")
		return
	}

	mark, err := session.Bind(conn)
	if err != nil {
		h.refuse(conn, CloseGameFull, "Game is full")
		return
	}
	defer session.Unbind(mark)

	h.log.Info().Str("game_id", gameID).Str("role", string(mark)).Msg("connection bound")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go h.pingLoop(ctx, conn)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Str("game_id", gameID).Str("role", string(mark)).Msg("read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case "move":
			if msg.Position == nil {
				h.log.Debug().Str("game_id", gameID).Msg("move without position ignored")
				continue
			}
			session.Move(mark, *msg.Position)
		case "new_game":
			session.Reset()
		default:
			// Unknown message types are ignored.
		}
	}
}

// refuse sends a close frame with the given application code before the
// deferred Close tears the connection down. No session state is mutated.
func (h *Handler) refuse(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	if err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		h.log.Debug().Err(err).Int("code", code).Msg("write close frame failed")
	}
}

// pingLoop keeps the connection alive. WriteControl is safe to call
// concurrently with the broadcast writes, so no session lock is needed.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
