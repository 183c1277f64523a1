package minesweeper

import (
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

const (
	GameDifficultyBeginner uint8 = iota
	GameDifficultyIntermediate
	GameDifficultyExpert
	GameDifficultyCustom
)

// Upper bounds for custom boards so a single request cannot make the
// server allocate an arbitrarily large grid.
const (
	MaxBoardWidth  = 100
	MaxBoardHeight = 100
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Mines  int `json:"mines"`
}

var presets = map[uint8]Dimensions{
	GameDifficultyBeginner:     {Width: 9, Height: 9, Mines: 10},
	GameDifficultyIntermediate: {Width: 16, Height: 16, Mines: 40},
	GameDifficultyExpert:       {Width: 30, Height: 16, Mines: 99},
}

// DifficultyDimensions resolves a preset. For GameDifficultyCustom the
// given custom dimensions are validated and returned instead.
func DifficultyDimensions(difficulty uint8, custom Dimensions) (Dimensions, error) {
	if dims, ok := presets[difficulty]; ok {
		return dims, nil
	}
	if difficulty != GameDifficultyCustom {
		return Dimensions{}, cerr.ErrGameDifficulty(difficulty)
	}

	if custom.Width <= 0 || custom.Height <= 0 || custom.Width > MaxBoardWidth || custom.Height > MaxBoardHeight {
		return Dimensions{}, cerr.ErrBoardSize(custom.Width, custom.Height)
	}
	if custom.Mines < 0 || custom.Mines >= custom.Width*custom.Height {
		return Dimensions{}, cerr.ErrMineCount(custom.Mines, custom.Width*custom.Height)
	}
	return custom, nil
}
