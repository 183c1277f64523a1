package minesweeper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	"go.uber.org/zap"
)

type GameManager interface {
	CreateGame(sessionId string, difficulty uint8, custom Dimensions, opts ...GameOption) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
	CleanupPeriodically(ctx context.Context)
}

type MinesweeperGameManager struct {
	games       map[string]*Game
	maxGameIdle time.Duration
	interval    time.Duration
	mu          sync.RWMutex
}

var _ GameManager = (*MinesweeperGameManager)(nil)

func NewMinesweeperGameManager() *MinesweeperGameManager {
	return &MinesweeperGameManager{
		games:       make(map[string]*Game, 10),
		maxGameIdle: time.Minute * 30,
		interval:    time.Minute * 5,
	}
}

func (mgm *MinesweeperGameManager) CreateGame(sessionId string, difficulty uint8, custom Dimensions, opts ...GameOption) (*Game, error) {
	dims, err := DifficultyDimensions(difficulty, custom)
	if err != nil {
		return nil, err
	}

	mgm.mu.Lock()
	defer mgm.mu.Unlock()

	gameUuid := uuid.NewString()[:8]
	for _, prs := mgm.games[gameUuid]; prs; _, prs = mgm.games[gameUuid] {
		gameUuid = uuid.NewString()[:8]
	}

	game := newGame(gameUuid, sessionId, dims, opts...)
	mgm.games[gameUuid] = game
	return game, nil
}

func (mgm *MinesweeperGameManager) FetchGame(gameUuid string) (*Game, error) {
	mgm.mu.RLock()
	game, prs := mgm.games[gameUuid]
	mgm.mu.RUnlock()

	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}
	return game, nil
}

func (mgm *MinesweeperGameManager) TerminateGame(gameUuid string) {
	mgm.mu.Lock()
	delete(mgm.games, gameUuid)
	mgm.mu.Unlock()
}

func (mgm *MinesweeperGameManager) CountGames() int {
	mgm.mu.RLock()
	defer mgm.mu.RUnlock()
	return len(mgm.games)
}

// Games without an accepted move for maxGameIdle are abandoned ones whose session never
// terminated them; they are dropped so the map does not grow forever.
func (mgm *MinesweeperGameManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(mgm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := mgm.removeStale(time.Now()); removed > 0 {
				logs.Info("stale games removed", zap.Int("count", removed))
			}
		}
	}
}

func (mgm *MinesweeperGameManager) removeStale(now time.Time) int {
	mgm.mu.Lock()
	defer mgm.mu.Unlock()

	removed := 0
	for gameUuid, game := range mgm.games {
		if now.Sub(game.LastActive()) > mgm.maxGameIdle {
			delete(mgm.games, gameUuid)
			removed++
		}
	}
	return removed
}
