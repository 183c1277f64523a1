package connection

import (
	"encoding/base64"

	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
)

const (
	CellStateHidden  = "hidden"
	CellStateFlagged = "flagged"
	CellStateVisible = "visible"
)

type CellView struct {
	State  string `json:"state"`
	Count  uint8  `json:"count,omitempty"`
	IsMine bool   `json:"is_mine,omitempty"`
}

// NewCellView renders what a player may see of c. Counts are only shown
// for visible cells; a mine is shown whenever c carries it, which for a
// running game only happens once it is visible.
func NewCellView(c mm.Cell) CellView {
	switch c.Visibility {
	case mm.VisibilityVisible:
		return CellView{State: CellStateVisible, Count: c.NeighbouringMines, IsMine: c.IsMine}
	case mm.VisibilityFlagged:
		return CellView{State: CellStateFlagged, IsMine: c.IsMine}
	default:
		return CellView{State: CellStateHidden, IsMine: c.IsMine}
	}
}

func NewBoardView(game *mm.Game) [][]CellView {
	rows := game.Rows()
	view := make([][]CellView, len(rows))
	for y, row := range rows {
		view[y] = make([]CellView, len(row))
		for x, c := range row {
			view[y][x] = NewCellView(c)
		}
	}
	return view
}

func EncodePacked(cells []mm.PackedCell) string {
	raw := make([]byte, len(cells))
	for i, c := range cells {
		raw[i] = byte(c)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func DecodePacked(encoded string) ([]mm.PackedCell, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	cells := make([]mm.PackedCell, len(raw))
	for i, b := range raw {
		cells[i] = mm.PackedCell(b)
	}
	return cells, nil
}
