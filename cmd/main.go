package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeidalz13/minesweeper-backend/api"
	"github.com/saeidalz13/minesweeper-backend/db"
	"github.com/saeidalz13/minesweeper-backend/db/sqlc"
	"github.com/saeidalz13/minesweeper-backend/db/sqlitestore"
	"github.com/saeidalz13/minesweeper-backend/internal/config"
	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	mc "github.com/saeidalz13/minesweeper-backend/models/connection"
	mm "github.com/saeidalz13/minesweeper-backend/models/minesweeper"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logs.Init("minesweeper", logs.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Dev:        !cfg.IsProd(),
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logs.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rpOpts []api.RequestProcessorOption
	if querier, closeFn := mustOpenQuerier(cfg); querier != nil {
		defer closeFn()
		dbManager := sqlc.NewDbManager(querier, api.ServerIpNet())
		rpOpts = append(rpOpts, api.WithAnalytics(dbManager.Analytics))
	} else {
		logs.Warn("no analytics database configured")
	}
	if cfg.IsProd() {
		rpOpts = append(rpOpts, api.WithAllowedOrigins(cfg.AllowedOrigins))
	}

	sessionManager := mc.NewMinesweeperSessionManager()
	gameManager := mm.NewMinesweeperGameManager()
	go sessionManager.CleanupPeriodically(ctx)
	go gameManager.CleanupPeriodically(ctx)

	server := api.NewServer(
		sessionManager,
		gameManager,
		api.WithStage(cfg.Stage),
		api.WithRequestProcessorOptions(rpOpts...),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		logs.Info("listening", zap.Int("port", cfg.Port), zap.String("stage", cfg.Stage))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logs.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Error("http server shutdown", zap.Error(err))
	}
}

// Postgres wins when DATABASE_URL is set; the dev stage may fall back to
// a local SQLite file.
func mustOpenQuerier(cfg config.Config) (sqlc.Querier, func()) {
	if cfg.DatabaseURL != "" {
		pg := db.MustConnectToDb(cfg.DatabaseURL)
		return sqlc.New(pg), func() { pg.Close() }
	}

	if cfg.SqlitePath != "" && !cfg.IsProd() {
		store, err := sqlitestore.Open(cfg.SqlitePath)
		if err != nil {
			logs.Fatal("open sqlite", zap.Error(err), zap.String("path", cfg.SqlitePath))
		}
		return store, func() { store.Close() }
	}

	return nil, nil
}
