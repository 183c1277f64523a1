package minesweeper

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

// Game wraps a Board for one player. The board is only built on the
// first reveal so that the first revealed cell is never a mine. Flags
// placed before that are kept aside and applied to the new board.
type Game struct {
	uuid         string
	sessionId    string
	dims         Dimensions
	boardOpts    []BoardOption
	board        *Board
	pendingFlags map[int]struct{}
	moves        int
	createdAt    time.Time
	// unix nanos of the last accepted move
	lastActive   atomic.Int64
}

type GameOption func(*Game)

func WithGameSeed(seed uint64) GameOption {
	return func(g *Game) {
		g.boardOpts = append(g.boardOpts, WithSeed(seed))
	}
}

func newGame(gameUuid, sessionId string, dims Dimensions, opts ...GameOption) *Game {
	g := &Game{
		uuid:         gameUuid,
		sessionId:    sessionId,
		dims:         dims,
		pendingFlags: make(map[int]struct{}),
		createdAt:    time.Now(),
	}
	g.lastActive.Store(g.createdAt.UnixNano())
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGame is used where no manager is involved, e.g. tests and tools.
func NewGame(sessionId string, dims Dimensions, opts ...GameOption) *Game {
	return newGame(uuid.NewString()[:8], sessionId, dims, opts...)
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) SessionId() string {
	return g.sessionId
}

func (g *Game) Dimensions() Dimensions {
	return g.dims
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// LastActive is the time of the last accepted move, or the creation time
// if there was none.
func (g *Game) LastActive() time.Time {
	return time.Unix(0, g.lastActive.Load())
}

// Moves counts operations that changed the game, rejected ones excluded.
func (g *Game) Moves() int {
	return g.moves
}

func (g *Game) IsStarted() bool {
	return g.board != nil
}

func (g *Game) State() State {
	if g.board == nil {
		return StateInProgress
	}
	return g.board.State()
}

func (g *Game) IsOver() bool {
	return g.State().IsTerminal()
}

func (g *Game) Flags() int {
	if g.board == nil {
		return len(g.pendingFlags)
	}
	return g.board.Flags()
}

func (g *Game) inBounds(x, y int) bool {
	return x >= 0 && x < g.dims.Width && y >= 0 && y < g.dims.Height
}

func (g *Game) start(x, y int) error {
	board, err := NewBoardWithClear(g.dims.Mines, g.dims.Width, g.dims.Height, x, y, g.boardOpts...)
	if err != nil {
		return err
	}

	for idx := range g.pendingFlags {
		if _, err := board.Flag(idx%g.dims.Width, idx/g.dims.Width); err != nil {
			return err
		}
	}
	g.pendingFlags = nil
	g.board = board
	return nil
}

func (g *Game) Reveal(x, y int) (Event, error) {
	if !g.inBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if g.board == nil {
		if err := g.start(x, y); err != nil {
			return EventInvalidOperation, err
		}
	}
	return g.count(g.board.Reveal(x, y))
}

func (g *Game) Flag(x, y int) (Event, error) {
	if !g.inBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if g.board == nil {
		idx := y*g.dims.Width + x
		if _, ok := g.pendingFlags[idx]; ok {
			return EventInvalidOperation, nil
		}
		g.pendingFlags[idx] = struct{}{}
		g.moved()
		return EventContinue, nil
	}
	return g.count(g.board.Flag(x, y))
}

func (g *Game) Unflag(x, y int) (Event, error) {
	if !g.inBounds(x, y) {
		return EventInvalidOperation, cerr.ErrXorYOutOfGridBound(x, y)
	}
	if g.board == nil {
		idx := y*g.dims.Width + x
		if _, ok := g.pendingFlags[idx]; !ok {
			return EventInvalidOperation, nil
		}
		delete(g.pendingFlags, idx)
		g.moved()
		return EventContinue, nil
	}
	return g.count(g.board.Unflag(x, y))
}

func (g *Game) count(event Event, err error) (Event, error) {
	if err == nil && event != EventInvalidOperation {
		g.moved()
	}
	return event, err
}

func (g *Game) moved() {
	g.moves++
	g.lastActive.Store(time.Now().UnixNano())
}

// Rows returns the grid indexed [y][x]. While the game is running hidden
// cells carry no mine or count information.
func (g *Game) Rows() [][]Cell {
	if g.board != nil {
		rows := g.board.Rows()
		if g.IsOver() {
			return rows
		}
		for y := range rows {
			for x := range rows[y] {
				if !rows[y][x].IsVisible() {
					rows[y][x].IsMine = false
					rows[y][x].NeighbouringMines = 0
				}
			}
		}
		return rows
	}

	rows := make([][]Cell, g.dims.Height)
	for y := range rows {
		rows[y] = make([]Cell, g.dims.Width)
		for x := range rows[y] {
			if _, ok := g.pendingFlags[y*g.dims.Width+x]; ok {
				rows[y][x].Visibility = VisibilityFlagged
			}
		}
	}
	return rows
}

// Pack returns the packed grid. Unless the game is over, hidden cells
// are concealed.
func (g *Game) Pack() []PackedCell {
	if g.board == nil {
		packed := make([]PackedCell, 0, g.dims.Width*g.dims.Height)
		for _, row := range g.Rows() {
			for _, c := range row {
				packed = append(packed, Pack(c))
			}
		}
		return packed
	}

	packed := g.board.Pack()
	if !g.IsOver() {
		for i := range packed {
			packed[i] = packed[i].Conceal()
		}
	}
	return packed
}
