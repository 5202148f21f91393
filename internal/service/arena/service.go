// Package arena owns the live game sessions: creation, lookup, player role
// binding and stale-session reclamation. All connection handles are held
// here as weak references; the arena never manages a connection's lifecycle
// beyond closing it when its session is reclaimed.
package arena

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tictacgo/backend/internal/model/game"
)

var (
	ErrSessionNotFound = errors.New("game not found")
	ErrSessionFull     = errors.New("game is full")
)

// Peer is the slice of a websocket connection the arena needs. It is
// satisfied by *websocket.Conn.
type Peer interface {
	WriteJSON(v any) error
	Close() error
}

// Session is one game plus the connections currently bound to its roles.
// The mutex guards board state, the peer map, and every broadcast that
// follows a mutation, so a move and its fan-out form one critical section.
type Session struct {
	ID        string
	CreatedAt time.Time

	log zerolog.Logger

	mu    sync.Mutex
	state *game.State
	peers map[game.Mark]Peer
}

// Status is a point-in-time copy of a session for the control surface.
type Status struct {
	Board       [9]string
	CurrentTurn game.Mark
	Outcome     game.Outcome
	PlayerCount int
	CreatedAt   time.Time
}

// Service is the registry of live sessions. Sessions older than the
// retention window are removed by ReclaimExpired.
type Service struct {
	log       zerolog.Logger
	retention time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService builds an empty registry with the given retention window.
func NewService(retention time.Duration, log zerolog.Logger) *Service {
	return &Service{
		log:       log.With().Str("component", "arena").Logger(),
		retention: retention,
		sessions:  make(map[string]*Session),
	}
}

// Create provisions a new session with a fresh id, an empty board and no
// bound players.
func (sv *Service) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		state:     game.NewState(),
		peers:     make(map[game.Mark]Peer, 2),
	}
	s.log = sv.log.With().Str("game_id", s.ID).Logger()

	sv.mu.Lock()
	sv.sessions[s.ID] = s
	sv.mu.Unlock()

	sv.log.Info().Str("game_id", s.ID).Msg("game created")
	return s
}

// Get retrieves a session by identifier.
func (sv *Service) Get(id string) (*Session, error) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()
	s, ok := sv.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Status reports a snapshot of one session.
func (sv *Service) Status(id string) (Status, error) {
	s, err := sv.Get(id)
	if err != nil {
		return Status{}, err
	}
	return s.Snapshot(), nil
}

// SnapshotAll reports a snapshot of every live session, keyed by id.
func (sv *Service) SnapshotAll() map[string]Status {
	sv.mu.RLock()
	sessions := make([]*Session, 0, len(sv.sessions))
	for _, s := range sv.sessions {
		sessions = append(sessions, s)
	}
	sv.mu.RUnlock()

	all := make(map[string]Status, len(sessions))
	for _, s := range sessions {
		all[s.ID] = s.Snapshot()
	}
	return all
}

// ReclaimExpired removes every session whose age at now exceeds the
// retention window, occupied or not, and closes any connections still
// bound to it. Returns the number of sessions removed.
//
// Sessions are unlinked from the registry first and their peers closed
// under the session lock afterwards, so a mutation in flight on a doomed
// session finishes before its connections are torn down.
func (sv *Service) ReclaimExpired(now time.Time) int {
	sv.mu.Lock()
	var expired []*Session
	for id, s := range sv.sessions {
		if now.Sub(s.CreatedAt) > sv.retention {
			delete(sv.sessions, id)
			expired = append(expired, s)
		}
	}
	sv.mu.Unlock()

	for _, s := range expired {
		s.mu.Lock()
		for mark, p := range s.peers {
			if err := p.Close(); err != nil {
				s.log.Debug().Err(err).Str("role", string(mark)).Msg("close on reclaim")
			}
			delete(s.peers, mark)
		}
		s.mu.Unlock()
		sv.log.Info().Str("game_id", s.ID).Time("created_at", s.CreatedAt).Msg("game reclaimed")
	}
	return len(expired)
}

// Bind attaches a peer to the first free role: X if unoccupied, else O.
// The new peer is told its role, whether it moves next and how many
// players are bound; once both roles are taken the full state is
// broadcast to both. Returns ErrSessionFull when no role is free.
func (s *Session) Bind(p Peer) (game.Mark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.peers) >= 2 {
		return "", ErrSessionFull
	}

	mark := game.MarkX
	if _, taken := s.peers[game.MarkX]; taken {
		mark = game.MarkO
	}
	s.peers[mark] = p

	s.log.Info().Str("role", string(mark)).Int("players", len(s.peers)).Msg("player joined")
	s.sendPlayerJoined(mark, p)
	if len(s.peers) == 2 {
		s.broadcastState()
	}
	return mark, nil
}

// Unbind frees the given role. The session itself stays in the registry
// even when no peers remain, for reconnection or later reclamation. If
// exactly one peer is left it is told its opponent disconnected.
func (s *Session) Unbind(mark game.Mark) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.peers[mark]; !ok {
		return
	}
	delete(s.peers, mark)
	s.log.Info().Str("role", string(mark)).Int("players", len(s.peers)).Msg("player left")

	if len(s.peers) == 1 {
		for _, p := range s.peers {
			s.sendOpponentDisconnected(p)
		}
	}
}

// Move applies a move by mark. Moves are only accepted while both roles
// are bound. A legal move is broadcast to both players, followed by a
// game-over notice if it decided the game. Illegal moves are dropped
// without a reply; the sender is not informed.
func (s *Session) Move(mark game.Mark, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.peers) != 2 {
		return
	}
	if !s.state.ApplyMove(position, mark) {
		s.log.Debug().Str("role", string(mark)).Int("position", position).Msg("move rejected")
		return
	}

	s.broadcastState()
	if s.state.Outcome != game.OutcomeNone {
		s.broadcastGameOver()
	}
}

// Reset clears the board and broadcasts the fresh state to every bound
// peer. Permitted at any occupancy. Role bindings are untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reset()
	s.broadcastState()
}

// Snapshot copies the session's observable state.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Board:       s.state.Board,
		CurrentTurn: s.state.CurrentTurn,
		Outcome:     s.state.Outcome,
		PlayerCount: len(s.peers),
		CreatedAt:   s.CreatedAt,
	}
}
