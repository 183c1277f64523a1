package minesweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

func TestCreateFetchTerminateGame(t *testing.T) {
	mgm := NewMinesweeperGameManager()

	game, err := mgm.CreateGame("session", GameDifficultyIntermediate, Dimensions{})
	if err != nil {
		t.Fatal(err)
	}
	if game.Dimensions() != presets[GameDifficultyIntermediate] {
		t.Fatalf("unexpected dimensions: %+v", game.Dimensions())
	}
	if game.SessionId() != "session" || len(game.Uuid()) != 8 {
		t.Fatalf("unexpected game: %s %s", game.SessionId(), game.Uuid())
	}

	fetched, err := mgm.FetchGame(game.Uuid())
	if err != nil {
		t.Fatal(err)
	}
	if fetched != game {
		t.Fatal("expected the same game instance")
	}
	if mgm.CountGames() != 1 {
		t.Fatalf("expected 1 game, got %d", mgm.CountGames())
	}

	mgm.TerminateGame(game.Uuid())
	if _, err := mgm.FetchGame(game.Uuid()); !errors.Is(err, cerr.ErrGameNotFound) {
		t.Fatalf("expected game not found, got %v", err)
	}
}

func TestCreateGameInvalidArguments(t *testing.T) {
	mgm := NewMinesweeperGameManager()

	tests := []struct {
		name       string
		difficulty uint8
		custom     Dimensions
		want       error
	}{
		{"unknown difficulty", 7, Dimensions{}, cerr.ErrInvalidDifficulty},
		{"custom zero width", GameDifficultyCustom, Dimensions{Width: 0, Height: 5, Mines: 1}, cerr.ErrInvalidBoardSize},
		{"custom too wide", GameDifficultyCustom, Dimensions{Width: MaxBoardWidth + 1, Height: 5, Mines: 1}, cerr.ErrInvalidBoardSize},
		{"custom too many mines", GameDifficultyCustom, Dimensions{Width: 3, Height: 3, Mines: 9}, cerr.ErrInvalidMineCount},
		{"custom negative mines", GameDifficultyCustom, Dimensions{Width: 3, Height: 3, Mines: -1}, cerr.ErrInvalidMineCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := mgm.CreateGame("session", tc.difficulty, tc.custom); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v\tgot: %v", tc.want, err)
			}
		})
	}

	if mgm.CountGames() != 0 {
		t.Fatalf("no game must be stored, got %d", mgm.CountGames())
	}
}

func TestCreateCustomGame(t *testing.T) {
	mgm := NewMinesweeperGameManager()
	custom := Dimensions{Width: 5, Height: 4, Mines: 6}

	game, err := mgm.CreateGame("session", GameDifficultyCustom, custom, WithGameSeed(42))
	if err != nil {
		t.Fatal(err)
	}
	if game.Dimensions() != custom {
		t.Fatalf("expected %+v\tgot: %+v", custom, game.Dimensions())
	}
}

func TestRemoveStaleGames(t *testing.T) {
	mgm := NewMinesweeperGameManager()

	stale, _ := mgm.CreateGame("a", GameDifficultyBeginner, Dimensions{})
	fresh, _ := mgm.CreateGame("b", GameDifficultyBeginner, Dimensions{})
	stale.lastActive.Store(time.Now().Add(-mgm.maxGameIdle - time.Minute).UnixNano())

	if removed := mgm.removeStale(time.Now()); removed != 1 {
		t.Fatalf("expected 1 removed game, got %d", removed)
	}
	if _, err := mgm.FetchGame(stale.Uuid()); err == nil {
		t.Fatal("stale game must be removed")
	}
	if _, err := mgm.FetchGame(fresh.Uuid()); err != nil {
		t.Fatal(err)
	}
}

func TestLongRunningGameKeptWhileMoving(t *testing.T) {
	mgm := NewMinesweeperGameManager()

	game, _ := mgm.CreateGame("a", GameDifficultyBeginner, Dimensions{}, WithGameSeed(7))
	game.createdAt = time.Now().Add(-mgm.maxGameIdle * 3)
	game.lastActive.Store(game.createdAt.UnixNano())

	if _, err := game.Flag(0, 0); err != nil {
		t.Fatal(err)
	}
	if removed := mgm.removeStale(time.Now()); removed != 0 {
		t.Fatalf("expected no removed game, got %d", removed)
	}

	// rejected moves are not activity
	game.lastActive.Store(game.createdAt.UnixNano())
	if event, _ := game.Flag(0, 0); event != EventInvalidOperation {
		t.Fatalf("expected %v\tgot: %v", EventInvalidOperation, event)
	}
	if removed := mgm.removeStale(time.Now()); removed != 1 {
		t.Fatalf("expected 1 removed game, got %d", removed)
	}
}

func TestCleanupPeriodicallyStopsOnCancel(t *testing.T) {
	mgm := NewMinesweeperGameManager()
	mgm.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mgm.CleanupPeriodically(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
