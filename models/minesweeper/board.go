package minesweeper

import (
	"math/rand/v2"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Moore neighbourhood including the cell itself. The order is fixed so
// that flood fill visits neighbours deterministically.
var neighbourOffsets = [9][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 0}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is a width x height mine field. It is not safe for concurrent
// use; the owner of a Board serialises calls to it.
type Board struct {
	width   int
	height  int
	mines   int
	cleared int
	flags   int
	state   State
	cells   []Cell
}

type BoardOption func(*boardConfig)

type boardConfig struct {
	rng *rand.Rand
}

// WithSeed makes mine placement reproducible.
func WithSeed(seed uint64) BoardOption {
	return func(c *boardConfig) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRand(rng *rand.Rand) BoardOption {
	return func(c *boardConfig) {
		c.rng = rng
	}
}

func newBoardConfig(opts []BoardOption) boardConfig {
	var cfg boardConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return cfg
}

func newEmptyBoard(mines, width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, cerr.ErrBoardSize(width, height)
	}
	if mines < 0 || mines >= width*height {
		return nil, cerr.ErrMineCount(mines, width*height)
	}

	return &Board{
		width:  width,
		height: height,
		mines:  mines,
		state:  StateInProgress,
		cells:  make([]Cell, width*height),
	}, nil
}

// NewBoard places mines uniformly at random over the whole grid.
func NewBoard(mines, width, height int, opts ...BoardOption) (*Board, error) {
	b, err := newEmptyBoard(mines, width, height)
	if err != nil {
		return nil, err
	}

	cfg := newBoardConfig(opts)
	for _, idx := range sampleIndices(cfg.rng, width*height, mines) {
		b.placeMine(idx%width, idx/width)
	}
	return b, nil
}

// NewBoardWithClear places mines anywhere except (x, y), so that the
// first reveal at (x, y) is always safe. Sampling happens over all but
// one slot; a sample that lands on (x, y) is moved to the bottom-right
// cell, which the sampling range itself never reaches.
func NewBoardWithClear(mines, width, height, x, y int, opts ...BoardOption) (*Board, error) {
	b, err := newEmptyBoard(mines, width, height)
	if err != nil {
		return nil, err
	}
	if !b.InBounds(x, y) {
		return nil, cerr.ErrXorYOutOfGridBound(x, y)
	}

	cfg := newBoardConfig(opts)
	for _, idx := range sampleIndices(cfg.rng, width*height-1, mines) {
		mx, my := idx%width, idx/width
		if mx == x && my == y {
			mx, my = width-1, height-1
		}
		b.placeMine(mx, my)
	}
	return b, nil
}

// sampleIndices picks k distinct values from [0, n) with a partial
// Fisher-Yates shuffle over the index pool.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func (b *Board) placeMine(x, y int) {
	b.cells[b.index(x, y)].IsMine = true

	for _, d := range neighbourOffsets {
		cx, cy := x+d[0], y+d[1]
		if d[0] == 0 && d[1] == 0 {
			continue
		}
		if b.InBounds(cx, cy) {
			b.cells[b.index(cx, cy)].NeighbouringMines++
		}
	}
}

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) Mines() int {
	return b.mines
}

// Cleared is the number of visible cells, mines included.
func (b *Board) Cleared() int {
	return b.cleared
}

func (b *Board) Flags() int {
	return b.flags
}

func (b *Board) State() State {
	return b.state
}

func (b *Board) safeCells() int {
	return b.width*b.height - b.mines
}

func (b *Board) At(x, y int) (Cell, error) {
	if !b.InBounds(x, y) {
		return Cell{}, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return b.cells[b.index(x, y)], nil
}

// Rows returns a copy of the grid indexed [y][x].
func (b *Board) Rows() [][]Cell {
	rows := make([][]Cell, b.height)
	for y := 0; y < b.height; y++ {
		rows[y] = make([]Cell, b.width)
		copy(rows[y], b.cells[y*b.width:(y+1)*b.width])
	}
	return rows
}

// Pack returns the grid in row-major order, one byte per cell.
func (b *Board) Pack() []PackedCell {
	packed := make([]PackedCell, len(b.cells))
	for i, c := range b.cells {
		packed[i] = Pack(c)
	}
	return packed
}

// Reveal uncovers (x, y). Flagged cells can be revealed. Once the board
// has reached Victory or Defeat every call is rejected.
func (b *Board) Reveal(x, y int) (Event, error) {
	if !b.InBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if b.state.IsTerminal() {
		return EventInvalidOperation, nil
	}

	cell := &b.cells[b.index(x, y)]
	if cell.Visibility == VisibilityVisible {
		return EventInvalidOperation, nil
	}
	b.uncover(cell)

	if cell.IsMine {
		b.state = StateDefeat
		return EventSteppedOnMine, nil
	}

	if cell.NeighbouringMines == 0 {
		b.clearPlains(x, y)
	}

	if b.cleared == b.safeCells() {
		b.state = StateVictory
		return EventAllMinesCleared, nil
	}
	return EventContinue, nil
}

func (b *Board) uncover(cell *Cell) {
	if cell.Visibility == VisibilityFlagged {
		b.flags--
	}
	cell.Visibility = VisibilityVisible
	b.cleared++
}

// clearPlains uncovers the connected region of zero-count cells around
// (x, y) together with its border. A cell next to a mine has a non-zero
// count, so the expansion never reaches a mine.
func (b *Board) clearPlains(x, y int) {
	stack := []Coordinates{NewCoordinates(x, y)}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range neighbourOffsets {
			cx, cy := cur.X+d[0], cur.Y+d[1]
			if !b.InBounds(cx, cy) {
				continue
			}

			cell := &b.cells[b.index(cx, cy)]
			if cell.Visibility == VisibilityVisible {
				continue
			}
			b.uncover(cell)

			if cell.NeighbouringMines == 0 {
				stack = append(stack, NewCoordinates(cx, cy))
			}
		}
	}
}

func (b *Board) Flag(x, y int) (Event, error) {
	if !b.InBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if b.state.IsTerminal() {
		return EventInvalidOperation, nil
	}

	cell := &b.cells[b.index(x, y)]
	if cell.Visibility != VisibilityHidden {
		return EventInvalidOperation, nil
	}
	cell.Visibility = VisibilityFlagged
	b.flags++
	return EventContinue, nil
}

func (b *Board) Unflag(x, y int) (Event, error) {
	if !b.InBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if b.state.IsTerminal() {
		return EventInvalidOperation, nil
	}

	cell := &b.cells[b.index(x, y)]
	if cell.Visibility != VisibilityFlagged {
		return EventInvalidOperation, nil
	}
	cell.Visibility = VisibilityHidden
	b.flags--
	return EventContinue, nil
}

// String renders the board for debugging: "-" hidden, "F" flagged,
// "*" visible mine, "." visible zero, digits otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			c := b.cells[b.index(x, y)]
			switch {
			case c.Visibility == VisibilityHidden:
				sb.WriteByte('-')
			case c.Visibility == VisibilityFlagged:
				sb.WriteByte('F')
			case c.IsMine:
				sb.WriteByte('*')
			case c.NeighbouringMines == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(int(c.NeighbouringMines)))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
