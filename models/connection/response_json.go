package connection

import (
	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string `json:"game_uuid"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Mines    int    `json:"mines"`
}

type RespMove struct {
	X     int          `json:"x"`
	Y     int          `json:"y"`
	Event mm.Event     `json:"event"`
	State mm.State     `json:"state"`
	Board [][]CellView `json:"board"`
}

type RespBoard struct {
	GameUuid string       `json:"game_uuid"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Mines    int          `json:"mines"`
	Flags    int          `json:"flags"`
	State    mm.State     `json:"state"`
	Board    [][]CellView `json:"board"`
}

// Cells holds one PackedCell per byte in row-major order, base64 encoded.
type RespBoardPacked struct {
	GameUuid string `json:"game_uuid"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Cells    string `json:"cells"`
}

type RespEndGame struct {
	GameUuid string       `json:"game_uuid"`
	State    mm.State     `json:"state"`
	Moves    int          `json:"moves"`
	Board    [][]CellView `json:"board"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
