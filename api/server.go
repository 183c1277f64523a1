package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	mc "github.com/saeidalz13/minesweeper-backend/models/connection"
	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
	"go.uber.org/zap"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	httpTimeout = time.Second * 30
)

type Server struct {
	stage          string
	rpOpts         []RequestProcessorOption
	rp             *RequestProcessor
	gameManager    mm.GameManager
	sessionManager mc.SessionManager
}

type Option func(*Server) error

func NewServer(sessionManager mc.SessionManager, gameManager mm.GameManager, optFuncs ...Option) *Server {
	server := Server{
		stage:          StageDev,
		gameManager:    gameManager,
		sessionManager: sessionManager,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	server.rp = NewRequestProcessor(sessionManager, gameManager, server.rpOpts...)
	return &server
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageDev && stage != StageProd {
			return cerr.ErrInvalidStage(stage)
		}
		s.stage = stage
		return nil
	}
}

func WithRequestProcessorOptions(opts ...RequestProcessorOption) Option {
	return func(s *Server) error {
		s.rpOpts = append(s.rpOpts, opts...)
		return nil
	}
}

func (s *Server) RequestProcessor() *RequestProcessor {
	return s.rp
}

// Routes wires the websocket endpoint next to the plain HTTP ones. The
// timeout middleware only applies to the latter since a websocket
// outlives any request deadline.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/minesweeper", s.rp)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(httpTimeout))
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
	})
	return r
}

type RespHealth struct {
	Status   string `json:"status"`
	Stage    string `json:"stage"`
	Games    int    `json:"games"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RespHealth{
		Status:   "ok",
		Stage:    s.stage,
		Games:    s.gameManager.CountGames(),
		Sessions: s.sessionManager.CountSessions(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.rp.Stats(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cerr.ErrAnalyticsUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, mc.NewRespErr(err.Error(), "server stats unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logs.Error("encoding response", zap.Error(err))
	}
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logs.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}
