package minesweeper

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

func TestGameFirstRevealIsSafe(t *testing.T) {
	expert := presets[GameDifficultyExpert]

	for seed := uint64(0); seed < 200; seed++ {
		g := NewGame("session", expert, WithGameSeed(seed))
		x, y := int(seed)%expert.Width, int(seed)%expert.Height

		event, err := g.Reveal(x, y)
		if err != nil {
			t.Fatal(err)
		}
		if event == EventSteppedOnMine || g.State() == StateDefeat {
			t.Fatalf("seed %d: first reveal at (%d,%d) hit a mine", seed, x, y)
		}
		if !g.IsStarted() {
			t.Fatal("game must start on first reveal")
		}
	}
}

func TestGamePendingFlagsSurviveStart(t *testing.T) {
	// three mines on a 2x2 board leave (0,0) as the only safe cell
	g := NewGame("session", Dimensions{Width: 2, Height: 2, Mines: 3})

	if event, _ := g.Flag(1, 1); event != EventContinue {
		t.Fatalf("expected %s\tgot: %s", EventContinue, event)
	}
	if g.IsStarted() {
		t.Fatal("flagging must not build the board")
	}
	if g.Flags() != 1 {
		t.Fatalf("expected 1 pending flag, got %d", g.Flags())
	}

	event, err := g.Reveal(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if event != EventAllMinesCleared {
		t.Fatalf("expected %s\tgot: %s", EventAllMinesCleared, event)
	}
	if g.Flags() != 1 {
		t.Fatalf("expected flag to survive, got %d flags", g.Flags())
	}
	if !g.Rows()[1][1].IsFlagged() {
		t.Fatal("expected (1,1) to stay flagged")
	}
}

func TestGamePendingFlagOperations(t *testing.T) {
	g := NewGame("session", presets[GameDifficultyBeginner])

	tests := []struct {
		name  string
		op    func(x, y int) (Event, error)
		event Event
	}{
		{"unflag hidden", g.Unflag, EventInvalidOperation},
		{"flag", g.Flag, EventContinue},
		{"flag again", g.Flag, EventInvalidOperation},
		{"unflag", g.Unflag, EventContinue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event, err := tc.op(4, 4)
			if err != nil {
				t.Fatal(err)
			}
			if event != tc.event {
				t.Fatalf("expected %s\tgot: %s", tc.event, event)
			}
		})
	}

	if g.Moves() != 2 {
		t.Fatalf("expected 2 counted moves, got %d", g.Moves())
	}
	if g.Flags() != 0 {
		t.Fatalf("expected no flags, got %d", g.Flags())
	}
}

func TestGameOutOfBounds(t *testing.T) {
	g := NewGame("session", presets[GameDifficultyBeginner])

	for _, op := range []func(x, y int) (Event, error){g.Reveal, g.Flag, g.Unflag} {
		event, err := op(9, 0)
		if event != EventInvalidOperation {
			t.Fatalf("expected %s\tgot: %s", EventInvalidOperation, event)
		}
		if !errors.Is(err, cerr.ErrOutOfGridBound) {
			t.Fatalf("expected out of bound error, got %v", err)
		}
	}
	if g.IsStarted() || g.Moves() != 0 {
		t.Fatal("rejected moves must not change the game")
	}
}

func TestGameConcealsHiddenCellsUntilOver(t *testing.T) {
	g := NewGame("session", Dimensions{Width: 2, Height: 2, Mines: 3})
	if _, err := g.Flag(1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Unflag(1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Reveal(0, 0); err != nil {
		t.Fatal(err)
	}

	// (0,0) is the only safe cell, so the game is won and nothing is hidden any more
	if !g.IsOver() {
		t.Fatalf("expected game over, got %s", g.State())
	}
	mines := 0
	for _, c := range g.Pack() {
		if c.IsMine() {
			mines++
		}
	}
	if mines != 3 {
		t.Fatalf("expected mines disclosed after the game, got %d", mines)
	}

	// seven mines around the centre leave one more safe cell, so the game goes on
	running := NewGame("session", Dimensions{Width: 3, Height: 3, Mines: 7})
	if _, err := running.Flag(2, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := running.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}
	if running.IsOver() {
		t.Fatalf("expected game in progress, got %s", running.State())
	}

	for i, c := range running.Pack() {
		cell := c.Unpack()
		if !cell.IsVisible() && (cell.IsMine || cell.NeighbouringMines != 0) {
			t.Fatalf("cell %d leaked: %+v", i, cell)
		}
	}
	for y, row := range running.Rows() {
		for x, cell := range row {
			if !cell.IsVisible() && cell.IsMine {
				t.Fatalf("(%d,%d) leaked a mine", x, y)
			}
		}
	}
	if c := running.Rows()[1][1]; !c.IsVisible() || c.NeighbouringMines != 7 {
		t.Fatalf("expected visible centre with 7 neighbours, got %+v", c)
	}
	if !running.Rows()[2][2].IsFlagged() {
		t.Fatal("expected flagged corner")
	}
}

func TestGameRejectsMovesAfterDefeat(t *testing.T) {
	g := NewGame("session", Dimensions{Width: 3, Height: 3, Mines: 7}, WithGameSeed(3))
	if _, err := g.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}

	mine := Coordinates{-1, -1}
	for i := 0; i < 9; i++ {
		if c, _ := g.board.At(i%3, i/3); c.IsMine {
			mine = NewCoordinates(i%3, i/3)
			break
		}
	}
	if event, _ := g.Reveal(mine.X, mine.Y); event != EventSteppedOnMine {
		t.Fatalf("expected %s\tgot: %s", EventSteppedOnMine, event)
	}
	if g.State() != StateDefeat {
		t.Fatalf("expected %s\tgot: %s", StateDefeat, g.State())
	}

	moves := g.Moves()
	if event, _ := g.Flag(0, 0); event != EventInvalidOperation {
		t.Fatalf("expected %s\tgot: %s", EventInvalidOperation, event)
	}
	if g.Moves() != moves {
		t.Fatal("rejected move must not be counted")
	}
}
