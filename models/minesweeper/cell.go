package minesweeper

type Visibility uint8

const (
	VisibilityHidden Visibility = iota
	VisibilityVisible
	VisibilityFlagged
)

func (v Visibility) String() string {
	switch v {
	case VisibilityHidden:
		return "hidden"
	case VisibilityVisible:
		return "visible"
	case VisibilityFlagged:
		return "flagged"
	default:
		return "unknown"
	}
}

// Cell is one position of the grid. NeighbouringMines is filled in
// by the board once all mines are placed and never changes after.
type Cell struct {
	IsMine            bool
	Visibility        Visibility
	NeighbouringMines uint8
}

func NewCell(isMine bool) Cell {
	return Cell{IsMine: isMine, Visibility: VisibilityHidden}
}

func (c Cell) IsVisible() bool {
	return c.Visibility == VisibilityVisible
}

func (c Cell) IsFlagged() bool {
	return c.Visibility == VisibilityFlagged
}
