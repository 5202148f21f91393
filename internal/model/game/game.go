package game

// Mark identifies a player and doubles as the board cell value.
type Mark string

const (
	MarkX Mark = "X"
	MarkO Mark = "O"
)

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// Outcome is the terminal result of a game. The zero value means the game
// is still in progress.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeX    Outcome = "X"
	OutcomeO    Outcome = "O"
	OutcomeDraw Outcome = "draw"
)

// winningTriples enumerates the 8 lines in a fixed order: rows, columns,
// diagonals. Evaluation order is deterministic for reproducibility.
var winningTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// State holds one game's board position. It is a plain value with no
// locking; callers that share a State guard it themselves.
type State struct {
	Board       [9]string `json:"board"`
	CurrentTurn Mark      `json:"currentTurn"`
	Outcome     Outcome   `json:"outcome"`
}

// NewState returns an empty board with X to move.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// ApplyMove places mark at position if the move is legal: position in
// range, cell empty, mark matches the current turn, and the game is still
// undecided. On success it evaluates the outcome and flips the turn.
// Illegal moves leave the state untouched and return false.
func (s *State) ApplyMove(position int, mark Mark) bool {
	if position < 0 || position > 8 {
		return false
	}
	if s.Board[position] != "" || mark != s.CurrentTurn || s.Outcome != OutcomeNone {
		return false
	}

	s.Board[position] = string(mark)
	s.evaluate()
	s.CurrentTurn = mark.Opponent()
	return true
}

// evaluate scans the winning triples and sets the outcome: a completed
// line wins, a full board with no line is a draw, otherwise the game
// continues.
func (s *State) evaluate() {
	for _, t := range winningTriples {
		a := s.Board[t[0]]
		if a != "" && a == s.Board[t[1]] && a == s.Board[t[2]] {
			s.Outcome = Outcome(a)
			return
		}
	}

	for _, cell := range s.Board {
		if cell == "" {
			return
		}
	}
	s.Outcome = OutcomeDraw
}

// Reset clears the board, hands the turn to X and unsets the outcome.
func (s *State) Reset() {
	s.Board = [9]string{}
	s.CurrentTurn = MarkX
	s.Outcome = OutcomeNone
}
