package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/minesweeper-backend/db/sqlc"
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	mc "github.com/saeidalz13/minesweeper-backend/models/connection"
	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
	"go.uber.org/zap"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mm.GameManager
	analytics      *sqlc.AnalyticsManager
	upgrader       websocket.Upgrader
}

type RequestProcessorOption func(*RequestProcessor)

// WithAnalytics enables the per-server counters. Without it games are
// played but nothing is recorded.
func WithAnalytics(analytics *sqlc.AnalyticsManager) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.analytics = analytics
	}
}

// WithAllowedOrigins restricts the websocket upgrade to the given
// origins. An empty list accepts every origin.
func WithAllowedOrigins(origins []string) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		if len(origins) == 0 {
			return
		}

		allowed := make(map[string]bool, len(origins))
		for _, origin := range origins {
			allowed[origin] = true
		}
		rp.upgrader.CheckOrigin = func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
	}
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mm.GameManager,
	opts ...RequestProcessorOption,
) *RequestProcessor {
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		upgrader: websocket.Upgrader{
			// not a high-latency exchange such as video streaming
			HandshakeTimeout: time.Second * 5,

			// an expert board view fits comfortably
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(rp)
	}
	return rp
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade replies to the client itself on failure
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logs.Warn("could not open websocket connection", zap.Error(err))
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		logs.Info("a new connection established", zap.String("remote_addr", conn.RemoteAddr().String()))
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		// the session goroutine waiting in its grace period takes over conn
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			logs.Info("reconnection rejected", zap.Error(err))
		}
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame *mm.Game
		sessionId   = session.Id()
	)

	endGame := func() {
		if sessionGame == nil {
			return
		}
		rp.gameManager.TerminateGame(sessionGame.Uuid())
		session.SetGameUuid("")
		sessionGame = nil
	}

	defer func() {
		endGame()
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		logs.Info("session terminated", zap.String("session_id", sessionId))
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// retries and grace period are already spent at this point
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), cerr.ErrSignalAbsent.Error())
			if err := rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// A new game replaces the one the session was playing
		case mc.CodeCreateGame:
			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, sessionId)
			if respMsg.Error == nil {
				endGame()
				sessionGame = game
				session.SetGameUuid(game.Uuid())
				rp.recordGameCreated()
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

		// After every move the game is checked; once it is over the
		// player gets the full board and the game is retired.
		case mc.CodeReveal, mc.CodeFlag, mc.CodeUnflag:
			game, respMsg := NewRequest(payload).HandleMove(code, rp.gameManager, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

			if game == nil || !game.IsOver() {
				continue sessionLoop
			}

			rp.recordOutcome(game)
			endMsg := NewEndGameMessage(game)
			if game == sessionGame {
				endGame()
			} else {
				rp.gameManager.TerminateGame(game.Uuid())
			}
			if err := rp.sessionManager.WriteToSessionConn(session, endMsg); err != nil {
				break sessionLoop
			}

		case mc.CodeBoard:
			respMsg := NewRequest(payload).HandleBoard(rp.gameManager, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodeBoardPacked:
			respMsg := NewRequest(payload).HandleBoardPacked(rp.gameManager, sessionId)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

// Analytics failures never end a game; they are only logged.
func (rp *RequestProcessor) recordGameCreated() {
	if rp.analytics == nil {
		return
	}
	if err := rp.analytics.IncrementGamesCreatedCount(context.Background()); err != nil {
		logs.Error("analytics: games created", zap.Error(err))
	}
}

func (rp *RequestProcessor) recordOutcome(game *mm.Game) {
	if rp.analytics == nil {
		return
	}
	if err := rp.analytics.RecordOutcome(context.Background(), game.State() == mm.StateVictory); err != nil {
		logs.Error("analytics: game outcome", zap.Error(err), zap.String("state", game.State().String()))
	}
}

func (rp *RequestProcessor) Stats(ctx context.Context) (sqlc.ServerStats, error) {
	if rp.analytics == nil {
		return sqlc.ServerStats{}, cerr.ErrAnalyticsUnavailable
	}

	stats, err := rp.analytics.GetServerStats(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logs.Error("analytics: server stats", zap.Error(err))
	}
	return stats, err
}
