// Package sqlitestore keeps server analytics in a local SQLite file. It
// backs the dev stage when no Postgres database is configured.
package sqlitestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/saeidalz13/minesweeper-backend/db/sqlc"
	"github.com/sqlc-dev/pqtype"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_server_analytics (
    server_ip TEXT PRIMARY KEY,
    games_created_count INTEGER NOT NULL DEFAULT 0,
    victories_count INTEGER NOT NULL DEFAULT 0,
    defeats_count INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL DEFAULT 0
);
`

const (
	incrementGamesCreatedCount = `
INSERT INTO game_server_analytics (server_ip, games_created_count, updated_at)
VALUES (?, 1, ?)
ON CONFLICT (server_ip) DO UPDATE
SET games_created_count = games_created_count + 1,
    updated_at = excluded.updated_at
`
	incrementVictoriesCount = `
INSERT INTO game_server_analytics (server_ip, victories_count, updated_at)
VALUES (?, 1, ?)
ON CONFLICT (server_ip) DO UPDATE
SET victories_count = victories_count + 1,
    updated_at = excluded.updated_at
`
	incrementDefeatsCount = `
INSERT INTO game_server_analytics (server_ip, defeats_count, updated_at)
VALUES (?, 1, ?)
ON CONFLICT (server_ip) DO UPDATE
SET defeats_count = defeats_count + 1,
    updated_at = excluded.updated_at
`
	getServerStats = `
SELECT games_created_count, victories_count, defeats_count, updated_at
FROM game_server_analytics
WHERE server_ip = ?
`
)

type Store struct {
	db *sql.DB
}

var _ sqlc.Querier = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers; a single connection also keeps an
	// in-memory database alive across calls.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(serverIp pqtype.Inet) string {
	return serverIp.IPNet.String()
}

func (s *Store) exec(ctx context.Context, query string, serverIp pqtype.Inet) error {
	_, err := s.db.ExecContext(ctx, query, key(serverIp), time.Now().Unix())
	return err
}

func (s *Store) AnalyticsIncrementGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error {
	return s.exec(ctx, incrementGamesCreatedCount, serverIp)
}

func (s *Store) AnalyticsIncrementVictoriesCount(ctx context.Context, serverIp pqtype.Inet) error {
	return s.exec(ctx, incrementVictoriesCount, serverIp)
}

func (s *Store) AnalyticsIncrementDefeatsCount(ctx context.Context, serverIp pqtype.Inet) error {
	return s.exec(ctx, incrementDefeatsCount, serverIp)
}

func (s *Store) AnalyticsGetServerStats(ctx context.Context, serverIp pqtype.Inet) (sqlc.GameServerAnalytic, error) {
	var (
		row       = sqlc.GameServerAnalytic{ServerIp: serverIp}
		updatedAt int64
	)

	err := s.db.QueryRowContext(ctx, getServerStats, key(serverIp)).Scan(
		&row.GamesCreatedCount,
		&row.VictoriesCount,
		&row.DefeatsCount,
		&updatedAt,
	)
	if err != nil {
		return sqlc.GameServerAnalytic{}, err
	}

	row.UpdatedAt = time.Unix(updatedAt, 0)
	return row, nil
}
