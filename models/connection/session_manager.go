package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	CountSessions() int
	CleanupPeriodically(ctx context.Context)

	WriteToSessionConn(session *Session, msg any) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	HandleAbnormalClosureSession(session *Session) error
}

type MinesweeperSessionManager struct {
	sessions        map[string]*Session
	cleanupInterval time.Duration
	maxSessionIdle  time.Duration
	gracePeriod     time.Duration
	mu              sync.RWMutex
}

var _ SessionManager = (*MinesweeperSessionManager)(nil)

type SessionManagerOption func(*MinesweeperSessionManager)

// WithGracePeriod sets how long a session with an active game waits for
// its client to reconnect after an abnormal closure.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(msm *MinesweeperSessionManager) {
		msm.gracePeriod = d
	}
}

func NewMinesweeperSessionManager(opts ...SessionManagerOption) *MinesweeperSessionManager {
	initMapSize := 10

	msm := &MinesweeperSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
		maxSessionIdle:  time.Hour * 2,
		gracePeriod:     gracePeriod,
	}
	for _, opt := range opts {
		opt(msm)
	}
	return msm
}

func (msm *MinesweeperSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	msm.mu.Lock()
	defer msm.mu.Unlock()

	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
	session := NewSession(sessionId, conn)
	msm.sessions[sessionId] = session
	return session
}

func (msm *MinesweeperSessionManager) FindSession(sessionId string) (*Session, error) {
	msm.mu.RLock()
	defer msm.mu.RUnlock()

	session, prs := msm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotExists(sessionId)
	}
	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}
	return session, nil
}

func (msm *MinesweeperSessionManager) TerminateSession(sessionId string) {
	msm.mu.Lock()
	delete(msm.sessions, sessionId)
	msm.mu.Unlock()
}

// ReconnectSession hands conn to an existing session. An unknown id is
// reported to the client and the connection is closed.
func (msm *MinesweeperSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := msm.FindSession(sessionId)
	if err != nil {
		msg := NewMessage[NoPayload](CodeReceivedInvalidSessionID)
		msg.AddError(err.Error(), "session id is invalid or expired")
		_ = conn.WriteJSON(msg)
		_ = conn.Close()
		return err
	}

	session.reconnect(conn)
	logs.Info("session reconnected", zap.String("session_id", sessionId))
	return nil
}

func (msm *MinesweeperSessionManager) CountSessions() int {
	msm.mu.RLock()
	defer msm.mu.RUnlock()
	return len(msm.sessions)
}

// Sessions with no traffic for longer than maxSessionIdle are assumed
// dangling and removed, together with their connection.
func (msm *MinesweeperSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(msm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := msm.removeStale(time.Now()); removed > 0 {
				logs.Info("stale sessions removed", zap.Int("count", removed))
			}
		}
	}
}

func (msm *MinesweeperSessionManager) removeStale(now time.Time) int {
	msm.mu.Lock()
	defer msm.mu.Unlock()

	removed := 0
	for id, session := range msm.sessions {
		if now.Sub(session.LastActive()) > msm.maxSessionIdle {
			if conn := session.Conn(); conn != nil {
				_ = conn.Close()
			}
			delete(msm.sessions, id)
			removed++
		}
	}
	return removed
}

// HandleAbnormalClosureSession keeps a session with a running game alive
// for the grace period. It returns nil once the client has reconnected.
func (msm *MinesweeperSessionManager) HandleAbnormalClosureSession(session *Session) error {
	return msm.waitForReconnect(session, session.Conn())
}

// waitForReconnect returns at once if failed was already replaced by a
// reconnect; otherwise it waits for the next one.
func (msm *MinesweeperSessionManager) waitForReconnect(session *Session, failed *websocket.Conn) error {
	current, reconnected := session.connAndSignal()
	if current != failed {
		return nil
	}
	if session.GameUuid() == "" {
		return NewConnErr(ConnLoopBreak).AddDesc("no active game; nothing to resume")
	}

	logs.Info("waiting for session to reconnect", zap.String("session_id", session.id), zap.Duration("grace_period", msm.gracePeriod))

	timer := time.NewTimer(msm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		logs.Info("session grace period is over", zap.String("session_id", session.id))
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + session.id)

	case <-reconnected:
		return nil
	}
}

func (msm *MinesweeperSessionManager) WriteToSessionConn(session *Session, msg any) error {
	conn := session.Conn()
	err := session.writeToConnWithRetry(msg)
	if err == nil {
		return nil
	}

	if connErrCode(err) != ConnLoopAbnormalClosureRetry {
		return err
	}
	if err := msm.waitForReconnect(session, conn); err != nil {
		return err
	}
	// the reply that failed is delivered on the new connection
	return session.writeToConnWithRetry(msg)
}

func (msm *MinesweeperSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		if conn == nil {
			return -1, []byte{}, NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		// A reconnect closes the old conn under this read; the session
		// goes on with the new one.
		if session.isSwapped(conn) {
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := msm.waitForReconnect(session, conn); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg returns the signal code of a raw client message.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, cerr.ErrSignalAbsent
	}
	return *signal.Code, nil
}
