package arena

import "github.com/tictacgo/backend/internal/model/game"

// Outbound wire messages. Field names match what the frontend consumes.

type playerJoinedMsg struct {
	Type        string    `json:"type"`
	Symbol      game.Mark `json:"symbol"`
	IsYourTurn  bool      `json:"is_your_turn"`
	PlayerCount int       `json:"player_count"`
}

type gameStateMsg struct {
	Type          string    `json:"type"`
	Board         [9]string `json:"board"`
	CurrentPlayer game.Mark `json:"current_player"`
	IsYourTurn    bool      `json:"is_your_turn"`
	PlayerCount   int       `json:"player_count"`
}

type gameOverMsg struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

type opponentDisconnectedMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// outcomeText renders the terminal result for display.
func outcomeText(o game.Outcome) string {
	if o == game.OutcomeDraw {
		return "Draw!"
	}
	return string(o) + " wins!"
}

// Delivery is best-effort per peer: a failed write is logged and never
// blocks delivery to the other peer. All senders below are called with
// the session lock held.

func (s *Session) sendPlayerJoined(mark game.Mark, p Peer) {
	msg := playerJoinedMsg{
		Type:        "player_joined",
		Symbol:      mark,
		IsYourTurn:  mark == s.state.CurrentTurn,
		PlayerCount: len(s.peers),
	}
	if err := p.WriteJSON(msg); err != nil {
		s.log.Warn().Err(err).Str("role", string(mark)).Msg("send player_joined failed")
	}
}

// broadcastState sends the board to every bound peer. The message is
// composed per recipient because the your-turn flag differs between them.
func (s *Session) broadcastState() {
	for mark, p := range s.peers {
		msg := gameStateMsg{
			Type:          "game_state",
			Board:         s.state.Board,
			CurrentPlayer: s.state.CurrentTurn,
			IsYourTurn:    mark == s.state.CurrentTurn,
			PlayerCount:   len(s.peers),
		}
		if err := p.WriteJSON(msg); err != nil {
			s.log.Warn().Err(err).Str("role", string(mark)).Msg("send game_state failed")
		}
	}
}

func (s *Session) broadcastGameOver() {
	msg := gameOverMsg{
		Type:   "game_over",
		Winner: outcomeText(s.state.Outcome),
	}
	for mark, p := range s.peers {
		if err := p.WriteJSON(msg); err != nil {
			s.log.Warn().Err(err).Str("role", string(mark)).Msg("send game_over failed")
		}
	}
}

func (s *Session) sendOpponentDisconnected(p Peer) {
	msg := opponentDisconnectedMsg{
		Type:    "opponent_disconnected",
		Message: "Opponent has disconnected. Waiting for them to rejoin...",
	}
	if err := p.WriteJSON(msg); err != nil {
		s.log.Warn().Err(err).Msg("send opponent_disconnected failed")
	}
}
