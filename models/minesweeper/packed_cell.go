package minesweeper

// PackedCell stores a Cell in a single byte:
//
//	bit  7   6       5       4    3..0
//	     -   flagged visible mine neighbouring mines
//
// A cell is never visible and flagged at the same time, so bits 5 and 6
// are mutually exclusive.
type PackedCell uint8

const (
	packedCountMask   PackedCell = 0b0000_1111
	packedMineBit     PackedCell = 1 << 4
	packedVisibleBit  PackedCell = 1 << 5
	packedFlaggedBit  PackedCell = 1 << 6
	packedVisibleMask PackedCell = packedVisibleBit | packedFlaggedBit
)

func Pack(c Cell) PackedCell {
	p := PackedCell(c.NeighbouringMines) & packedCountMask
	if c.IsMine {
		p |= packedMineBit
	}

	switch c.Visibility {
	case VisibilityVisible:
		p |= packedVisibleBit
	case VisibilityFlagged:
		p |= packedFlaggedBit
	}
	return p
}

func (p PackedCell) Unpack() Cell {
	return Cell{
		IsMine:            p.IsMine(),
		Visibility:        p.Visibility(),
		NeighbouringMines: p.NeighbouringMines(),
	}
}

func (p PackedCell) IsMine() bool {
	return p&packedMineBit != 0
}

func (p *PackedCell) SetMine(isMine bool) {
	if isMine {
		*p |= packedMineBit
		return
	}
	*p &^= packedMineBit
}

func (p PackedCell) Visibility() Visibility {
	switch {
	case p&packedVisibleBit != 0:
		return VisibilityVisible
	case p&packedFlaggedBit != 0:
		return VisibilityFlagged
	default:
		return VisibilityHidden
	}
}

func (p *PackedCell) SetVisibility(v Visibility) {
	*p &^= packedVisibleMask
	switch v {
	case VisibilityVisible:
		*p |= packedVisibleBit
	case VisibilityFlagged:
		*p |= packedFlaggedBit
	}
}

func (p PackedCell) NeighbouringMines() uint8 {
	return uint8(p & packedCountMask)
}

func (p *PackedCell) SetNeighbouringMines(n uint8) {
	*p = (*p &^ packedCountMask) | (PackedCell(n) & packedCountMask)
}

// Conceal clears the mine bit unless the cell is visible, so that a
// packed board can be handed to a player without giving away mines.
func (p PackedCell) Conceal() PackedCell {
	if p.Visibility() == VisibilityVisible {
		return p
	}
	return p &^ (packedMineBit | packedCountMask)
}
