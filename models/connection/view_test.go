package connection

import (
	"encoding/json"
	"reflect"
	"testing"

	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
)

func TestNewCellView(t *testing.T) {
	tests := []struct {
		name string
		cell mm.Cell
		want CellView
	}{
		{"hidden", mm.Cell{}, CellView{State: CellStateHidden}},
		{"flagged", mm.Cell{Visibility: mm.VisibilityFlagged}, CellView{State: CellStateFlagged}},
		{"visible zero", mm.Cell{Visibility: mm.VisibilityVisible}, CellView{State: CellStateVisible}},
		{"visible count", mm.Cell{Visibility: mm.VisibilityVisible, NeighbouringMines: 3}, CellView{State: CellStateVisible, Count: 3}},
		{"visible mine", mm.Cell{Visibility: mm.VisibilityVisible, IsMine: true, NeighbouringMines: 2}, CellView{State: CellStateVisible, Count: 2, IsMine: true}},
		{"hidden count not shown", mm.Cell{NeighbouringMines: 4}, CellView{State: CellStateHidden}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewCellView(tc.cell); got != tc.want {
				t.Fatalf("expected %+v\tgot: %+v", tc.want, got)
			}
		})
	}
}

func TestCellViewJSON(t *testing.T) {
	raw, err := json.Marshal([]CellView{
		NewCellView(mm.Cell{}),
		NewCellView(mm.Cell{Visibility: mm.VisibilityVisible, NeighbouringMines: 1}),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"state":"hidden"},{"state":"visible","count":1}]`
	if string(raw) != want {
		t.Fatalf("expected %s\tgot: %s", want, raw)
	}
}

func TestBoardViewHidesMinesWhileRunning(t *testing.T) {
	game := mm.NewGame("session", mm.Dimensions{Width: 3, Height: 3, Mines: 7}, mm.WithGameSeed(1))
	if _, err := game.Reveal(1, 1); err != nil {
		t.Fatal(err)
	}

	view := NewBoardView(game)
	if len(view) != 3 || len(view[0]) != 3 {
		t.Fatalf("unexpected view size: %dx%d", len(view[0]), len(view))
	}
	for y, row := range view {
		for x, c := range row {
			if x == 1 && y == 1 {
				if c != (CellView{State: CellStateVisible, Count: 7}) {
					t.Fatalf("unexpected centre: %+v", c)
				}
				continue
			}
			if c.IsMine || c.State != CellStateHidden {
				t.Fatalf("(%d,%d) leaked: %+v", x, y, c)
			}
		}
	}
}

func TestPackedEncoding(t *testing.T) {
	game := mm.NewGame("session", mm.Dimensions{Width: 4, Height: 2, Mines: 2}, mm.WithGameSeed(9))
	if _, err := game.Flag(3, 1); err != nil {
		t.Fatal(err)
	}

	packed := game.Pack()
	decoded, err := DecodePacked(EncodePacked(packed))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, packed) {
		t.Fatalf("expected %v\tgot: %v", packed, decoded)
	}
	if !decoded[7].Unpack().IsFlagged() {
		t.Fatal("expected last cell flagged")
	}

	if _, err := DecodePacked("not base64!"); err == nil {
		t.Fatal("expected decode error")
	}
}
