package game_test

import (
	"testing"

	"github.com/tictacgo/backend/internal/model/game"
)

func TestApplyMoveAlternatesTurns(t *testing.T) {
	s := game.NewState()

	moves := []struct {
		position int
		mark     game.Mark
	}{
		{0, game.MarkX},
		{4, game.MarkO},
		{1, game.MarkX},
		{5, game.MarkO},
	}

	for _, m := range moves {
		if s.CurrentTurn != m.mark {
			t.Fatalf("expected turn %s before move at %d, got %s", m.mark, m.position, s.CurrentTurn)
		}
		if !s.ApplyMove(m.position, m.mark) {
			t.Fatalf("move at %d by %s rejected", m.position, m.mark)
		}
		if s.CurrentTurn != m.mark.Opponent() {
			t.Fatalf("turn not flipped after move at %d", m.position)
		}
	}
}

func TestApplyMoveRejections(t *testing.T) {
	s := game.NewState()
	if !s.ApplyMove(0, game.MarkX) {
		t.Fatal("opening move rejected")
	}

	cases := []struct {
		name     string
		position int
		mark     game.Mark
	}{
		{"out of range low", -1, game.MarkO},
		{"out of range high", 9, game.MarkO},
		{"occupied cell", 0, game.MarkO},
		{"wrong turn", 1, game.MarkX},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := *s
			if s.ApplyMove(tc.position, tc.mark) {
				t.Fatalf("expected rejection for %s", tc.name)
			}
			if *s != before {
				t.Fatalf("state mutated on rejected move: %+v", s)
			}
		})
	}
}

func TestApplyMoveRejectedAfterOutcome(t *testing.T) {
	s := game.NewState()
	// X takes the top row: 0,1,2 with O elsewhere.
	script := []struct {
		position int
		mark     game.Mark
	}{
		{0, game.MarkX}, {3, game.MarkO},
		{1, game.MarkX}, {4, game.MarkO},
		{2, game.MarkX},
	}
	for _, m := range script {
		if !s.ApplyMove(m.position, m.mark) {
			t.Fatalf("move at %d rejected", m.position)
		}
	}

	if s.Outcome != game.OutcomeX {
		t.Fatalf("expected X win, got %q", s.Outcome)
	}
	if s.ApplyMove(5, s.CurrentTurn) {
		t.Fatal("move accepted after game decided")
	}
	if s.Outcome != game.OutcomeX {
		t.Fatalf("outcome changed after rejected move: %q", s.Outcome)
	}
}

func TestAllWinningLines(t *testing.T) {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}

	for _, line := range lines {
		s := game.NewState()
		// Interleave O moves on cells outside the line.
		free := make([]int, 0, 6)
		for i := 0; i < 9; i++ {
			if i != line[0] && i != line[1] && i != line[2] {
				free = append(free, i)
			}
		}

		for i, pos := range line {
			if !s.ApplyMove(pos, game.MarkX) {
				t.Fatalf("line %v: X move at %d rejected", line, pos)
			}
			if i < 2 {
				if !s.ApplyMove(free[i], game.MarkO) {
					t.Fatalf("line %v: O move at %d rejected", line, free[i])
				}
			}
		}

		if s.Outcome != game.OutcomeX {
			t.Fatalf("line %v: expected X win, got %q", line, s.Outcome)
		}
	}
}

func TestDraw(t *testing.T) {
	s := game.NewState()
	// X X O / O O X / X O X — no winner.
	script := []struct {
		position int
		mark     game.Mark
	}{
		{0, game.MarkX}, {2, game.MarkO},
		{1, game.MarkX}, {3, game.MarkO},
		{5, game.MarkX}, {4, game.MarkO},
		{6, game.MarkX}, {7, game.MarkO},
		{8, game.MarkX},
	}
	for _, m := range script {
		if !s.ApplyMove(m.position, m.mark) {
			t.Fatalf("move at %d by %s rejected", m.position, m.mark)
		}
	}

	if s.Outcome != game.OutcomeDraw {
		t.Fatalf("expected draw, got %q", s.Outcome)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := game.NewState()
	s.ApplyMove(0, game.MarkX)
	s.ApplyMove(4, game.MarkO)
	s.Reset()

	if s.Board != [9]string{} {
		t.Fatalf("board not cleared: %v", s.Board)
	}
	if s.CurrentTurn != game.MarkX {
		t.Fatalf("turn not reset to X: %s", s.CurrentTurn)
	}
	if s.Outcome != game.OutcomeNone {
		t.Fatalf("outcome not cleared: %q", s.Outcome)
	}
}
