package error

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfGridBound       = errors.New("coordinates out of grid bound")
	ErrInvalidBoardSize     = errors.New("invalid board size")
	ErrInvalidMineCount     = errors.New("invalid mine count")
	ErrGameNotFound         = errors.New("game not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidDifficulty    = errors.New("invalid game difficulty")
	ErrAnalyticsUnavailable = errors.New("analytics database is not configured")
	ErrSignalAbsent         = errors.New("message must contain 'code' field")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotFound, gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrSessionNotExists(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrGameNotOwnedBySession(gameUuid, sessionId string) error {
	return fmt.Errorf("game %s does not belong to session %s", gameUuid, sessionId)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfGridBound, x, y)
}

func ErrBoardSize(width, height int) error {
	return fmt.Errorf("%w\twidth: %d\theight: %d", ErrInvalidBoardSize, width, height)
}

func ErrMineCount(mines, cells int) error {
	return fmt.Errorf("%w\tmines: %d\tcells: %d", ErrInvalidMineCount, mines, cells)
}

func ErrGameDifficulty(difficulty uint8) error {
	return fmt.Errorf("%w: %d", ErrInvalidDifficulty, difficulty)
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("invalid type of development stage: %s", stage)
}

func ErrInvalidPort(port int) error {
	return fmt.Errorf("port must be between 1 and 9999, got: %d", port)
}

func ErrEnvMissing(key string) error {
	return fmt.Errorf("environment variable is not set: %s", key)
}
