package api

import (
	"encoding/json"
	"errors"

	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	mc "github.com/saeidalz13/minesweeper-backend/models/connection"
	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
	"go.uber.org/zap"
)

type RequestHandler interface {
	HandleCreateGame(gm mm.GameManager, sessionId string) (*mm.Game, mc.Message[mc.RespCreateGame])
	HandleMove(code uint8, gm mm.GameManager, sessionId string) (*mm.Game, mc.Message[mc.RespMove])
	HandleBoard(gm mm.GameManager, sessionId string) mc.Message[mc.RespBoard]
	HandleBoardPacked(gm mm.GameManager, sessionId string) mc.Message[mc.RespBoardPacked]
}

// Every incoming message is wrapped in a Request and then handled in
// line with RequestHandler.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func (r Request) HandleCreateGame(gm mm.GameManager, sessionId string) (*mm.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, resp
	}

	var opts []mm.GameOption
	if req.Payload.Seed != nil {
		opts = append(opts, mm.WithGameSeed(*req.Payload.Seed))
	}

	custom := mm.Dimensions{Width: req.Payload.Width, Height: req.Payload.Height, Mines: req.Payload.Mines}
	game, err := gm.CreateGame(sessionId, req.Payload.Difficulty, custom, opts...)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	dims := game.Dimensions()
	resp.AddPayload(mc.RespCreateGame{
		GameUuid: game.Uuid(),
		Width:    dims.Width,
		Height:   dims.Height,
		Mines:    dims.Mines,
	})
	logs.Debug("game created", zap.String("game_uuid", game.Uuid()), zap.String("session_id", sessionId))
	return game, resp
}

// HandleMove applies a reveal, flag or unflag. A move the board rejects
// is not an error: the reply carries EventInvalidOperation.
func (r Request) HandleMove(code uint8, gm mm.GameManager, sessionId string) (*mm.Game, mc.Message[mc.RespMove]) {
	resp := mc.NewMessage[mc.RespMove](code)

	var req mc.Message[mc.ReqMove]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid move payload")
		return nil, resp
	}

	game, err := fetchSessionGame(gm, req.Payload.GameUuid, sessionId)
	if err != nil {
		resp.AddError(err.Error(), "game not available")
		return nil, resp
	}

	x, y := req.Payload.X, req.Payload.Y
	var event mm.Event
	switch code {
	case mc.CodeReveal:
		event, err = game.Reveal(x, y)
	case mc.CodeFlag:
		event, err = game.Flag(x, y)
	case mc.CodeUnflag:
		event, err = game.Unflag(x, y)
	default:
		resp.AddError("", "not a move code")
		return nil, resp
	}

	if err != nil {
		if errors.Is(err, cerr.ErrOutOfGridBound) {
			resp.AddError(err.Error(), "coordinates out of board")
		} else {
			resp.AddError(err.Error(), "move failed")
		}
	}

	resp.AddPayload(mc.RespMove{
		X:     x,
		Y:     y,
		Event: event,
		State: game.State(),
		Board: mc.NewBoardView(game),
	})
	return game, resp
}

func (r Request) HandleBoard(gm mm.GameManager, sessionId string) mc.Message[mc.RespBoard] {
	resp := mc.NewMessage[mc.RespBoard](mc.CodeBoard)

	var req mc.Message[mc.ReqBoard]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid board payload")
		return resp
	}

	game, err := fetchSessionGame(gm, req.Payload.GameUuid, sessionId)
	if err != nil {
		resp.AddError(err.Error(), "game not available")
		return resp
	}

	dims := game.Dimensions()
	resp.AddPayload(mc.RespBoard{
		GameUuid: game.Uuid(),
		Width:    dims.Width,
		Height:   dims.Height,
		Mines:    dims.Mines,
		Flags:    game.Flags(),
		State:    game.State(),
		Board:    mc.NewBoardView(game),
	})
	return resp
}

func (r Request) HandleBoardPacked(gm mm.GameManager, sessionId string) mc.Message[mc.RespBoardPacked] {
	resp := mc.NewMessage[mc.RespBoardPacked](mc.CodeBoardPacked)

	var req mc.Message[mc.ReqBoard]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid board payload")
		return resp
	}

	game, err := fetchSessionGame(gm, req.Payload.GameUuid, sessionId)
	if err != nil {
		resp.AddError(err.Error(), "game not available")
		return resp
	}

	dims := game.Dimensions()
	resp.AddPayload(mc.RespBoardPacked{
		GameUuid: game.Uuid(),
		Width:    dims.Width,
		Height:   dims.Height,
		Cells:    mc.EncodePacked(game.Pack()),
	})
	return resp
}

func NewEndGameMessage(game *mm.Game) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	resp.AddPayload(mc.RespEndGame{
		GameUuid: game.Uuid(),
		State:    game.State(),
		Moves:    game.Moves(),
		Board:    mc.NewBoardView(game),
	})
	return resp
}

// A session may only play the games it created.
func fetchSessionGame(gm mm.GameManager, gameUuid, sessionId string) (*mm.Game, error) {
	game, err := gm.FetchGame(gameUuid)
	if err != nil {
		return nil, err
	}
	if game.SessionId() != sessionId {
		return nil, cerr.ErrGameNotOwnedBySession(gameUuid, sessionId)
	}
	return game, nil
}
