// Package store persists completed CompactLogs (Postgres) and in-flight
// relay session state (Redis), adapted from the teacher's db package:
// same pool-init/schema/CRUD shape, repurposed for match logs instead of
// crash-game history.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/wire"
)

// Postgres wraps a connection pool archiving completed matches.
type Postgres struct {
	pool *pgxpool.Pool
}

// MatchRecord is one archived match row.
type MatchRecord struct {
	GameID     uint32
	Log        wire.CompactLog
	Fair       bool
	Reason     string
	LeftScore  uint32
	RightScore uint32
	CreatedAt  time.Time
}

// OpenPostgres connects to databaseURL (falling back to the DATABASE_URL
// environment variable) and ensures the matches table exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("store: DATABASE_URL not set")
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parsing database url: %w", err)
	}
	poolConfig.MaxConns = int32(pongconfig.PostgresMaxConns)
	poolConfig.MinConns = int32(pongconfig.PostgresMinConns)
	poolConfig.MaxConnLifetime = pongconfig.PostgresMaxConnLife

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("store: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.initSchema(ctx); err != nil {
		return nil, err
	}
	log.Println("✅ PostgreSQL connected")
	return p, nil
}

func (p *Postgres) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS matches (
		id SERIAL PRIMARY KEY,
		game_id BIGINT NOT NULL UNIQUE,
		log JSONB NOT NULL,
		fair BOOLEAN NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		left_score INTEGER NOT NULL,
		right_score INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);
	CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at DESC);
	`
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: initializing schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.pool.Close() }

// ArchiveMatch inserts or replaces the row for rec.GameID.
func (p *Postgres) ArchiveMatch(ctx context.Context, rec MatchRecord) error {
	logJSON, err := json.Marshal(rec.Log)
	if err != nil {
		return fmt.Errorf("store: marshaling log: %w", err)
	}
	const q = `
	INSERT INTO matches (game_id, log, fair, reason, left_score, right_score)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (game_id) DO UPDATE SET
		log = EXCLUDED.log,
		fair = EXCLUDED.fair,
		reason = EXCLUDED.reason,
		left_score = EXCLUDED.left_score,
		right_score = EXCLUDED.right_score
	`
	_, err = p.pool.Exec(ctx, q, rec.GameID, logJSON, rec.Fair, rec.Reason, rec.LeftScore, rec.RightScore)
	if err != nil {
		return fmt.Errorf("store: archiving match %d: %w", rec.GameID, err)
	}
	return nil
}

// GetMatch fetches a previously archived match by game_id.
func (p *Postgres) GetMatch(ctx context.Context, gameID uint32) (*MatchRecord, error) {
	const q = `
	SELECT log, fair, reason, left_score, right_score, created_at
	FROM matches WHERE game_id = $1
	`
	row := p.pool.QueryRow(ctx, q, gameID)

	var logJSON []byte
	rec := MatchRecord{GameID: gameID}
	if err := row.Scan(&logJSON, &rec.Fair, &rec.Reason, &rec.LeftScore, &rec.RightScore, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("store: fetching match %d: %w", gameID, err)
	}
	if err := json.Unmarshal(logJSON, &rec.Log); err != nil {
		return nil, fmt.Errorf("store: decoding match %d log: %w", gameID, err)
	}
	return &rec, nil
}

// HealthCheck pings the pool.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
