package connection

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	"go.uber.org/zap"
)

const (
	maxWsRetries  uint8         = 2
	backOffFactor uint8         = 2
	gracePeriod   time.Duration = time.Minute * 2
)

type ConnectionHandler interface {
	reconnect(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg any) error
	onConnErr(err error) uint8
}

// Session is one player connection. The conn is swapped when the client
// reconnects with the session id, whether or not the old conn has
// failed yet.
type Session struct {
	id                     string
	mu                     sync.Mutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan struct{}
	gameUuid               string
	// unix nanos of the last successful read or write
	lastActive             atomic.Int64
}

func NewSession(id string, conn *websocket.Conn) *Session {
	s := &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive is the time of the last message read from or written to
// the session connection.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// GameUuid is the game the session currently plays, empty if none.
func (s *Session) GameUuid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameUuid
}

func (s *Session) SetGameUuid(gameUuid string) {
	s.mu.Lock()
	s.gameUuid = gameUuid
	s.mu.Unlock()
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}

// connAndSignal returns the current conn together with the channel that
// is closed when that conn gets replaced.
func (s *Session) connAndSignal() (*websocket.Conn, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn, s.reconnectionSignalChan
}

// isSwapped reports whether conn is no longer the session connection.
func (s *Session) isSwapped(conn *websocket.Conn) bool {
	return s.Conn() != conn
}

func (s *Session) onConnErr(err error) uint8 {
	fields := []zap.Field{zap.String("session_id", s.id), zap.Error(err)}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		logs.Warn("timeout error", fields...)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		logs.Warn("high server load/traffic error", fields...)
		return ConnLoopRetry
	}

	// Mobile clients going to background end up here
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		logs.Warn("abnormal closure error", fields...)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		logs.Info("close error", fields...)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		logs.Error("critical error", fields...)
		return ConnLoopBreak
	}

	// Most likely a client that is not ours (binary frames, bad UTF-8 ...).
	// Breaking keeps it from flooding the server with invalid payloads.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		logs.Warn("non-critical error", fields...)
		return ConnLoopBreak
	}

	logs.Error("unexpected error", fields...)
	return ConnLoopBreak
}

// Writes msg as JSON to the session connection, retrying on timeouts.
func (s *Session) writeToConnWithRetry(msg any) error {
	var retries uint8

writeJsonLoop:
	for {
		conn := s.Conn()
		if conn == nil {
			return NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		err := conn.WriteJSON(msg)
		if err == nil {
			s.touch()
			return nil
		}

		// the client came back on a new conn while this one was dying
		if s.isSwapped(conn) {
			continue writeJsonLoop
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWsRetries {
				retries++
				logs.Warn("writing json to ws failed; retrying", zap.String("remote_addr", s.remoteAddr()), zap.Uint8("retry", retries))
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue writeJsonLoop
			}
			logs.Error("max retries reached for writing to ws", zap.String("remote_addr", s.remoteAddr()), zap.Error(err))
			return NewConnErr(ConnLoopBreak).AddDesc(err.Error())

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).AddDesc(err.Error())

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop due to: " + err.Error())
		}
	}
}

// Maps a read error to what the read loop should do next.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWsRetries {
			logs.Warn("failed to read from ws conn; retrying", zap.String("remote_addr", s.remoteAddr()), zap.Uint8("retry", retries+1))
			time.Sleep(time.Duration((retries+1)*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		logs.Info("break ws conn loop", zap.String("remote_addr", s.remoteAddr()), zap.Error(err))
		return ConnLoopBreak
	}
}

func (s *Session) reconnect(conn *websocket.Conn) {
	s.mu.Lock()
	old := s.conn
	s.conn = conn
	signal := s.reconnectionSignalChan
	s.reconnectionSignalChan = make(chan struct{})
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	close(signal)
}

var _ ConnectionHandler = (*Session)(nil)
