package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// Analytics are counted per server, keyed by the server's own address.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

type ServerStats struct {
	GamesCreated int64 `json:"games_created"`
	Victories    int64 `json:"victories"`
	Defeats      int64 `json:"defeats"`
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return a.queries.AnalyticsIncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) RecordOutcome(ctx context.Context, victory bool) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	if victory {
		return a.queries.AnalyticsIncrementVictoriesCount(ctx, a.serverIp)
	}
	return a.queries.AnalyticsIncrementDefeatsCount(ctx, a.serverIp)
}

// GetServerStats reports zero counters for a server with no row yet.
func (a *AnalyticsManager) GetServerStats(ctx context.Context) (ServerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	row, err := a.queries.AnalyticsGetServerStats(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return ServerStats{}, nil
	}
	if err != nil {
		return ServerStats{}, err
	}

	return ServerStats{
		GamesCreated: row.GamesCreatedCount,
		Victories:    row.VictoriesCount,
		Defeats:      row.DefeatsCount,
	}, nil
}
