package database

import (
	"context"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type DB struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

func Connect(ctx context.Context, databaseURL string, log zerolog.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	db := &DB{Pool: pool, log: log}
	if err := db.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("url", maskDSN(databaseURL)).
		Int32("max_conns", cfg.MaxConns).
		Msg("database connected")

	return db, nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.Pool.Ping(ctx)
}

func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

func (db *DB) Close() {
	db.log.Info().Msg("closing database pool")
	db.Pool.Close()
}

// ensureSchema creates the engine's tables if they don't exist. The schema is
// small enough that idempotent DDL beats a migration tool here.
func (db *DB) ensureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS segments (
			video_id            TEXT NOT NULL,
			segment_num         INT NOT NULL,
			start_time          DOUBLE PRECISION NOT NULL DEFAULT 0,
			end_time            DOUBLE PRECISION NOT NULL DEFAULT 0,
			duration            DOUBLE PRECISION NOT NULL DEFAULT 0,
			timestamp_range     TEXT NOT NULL DEFAULT '',
			transcript          TEXT NOT NULL,
			original_transcript TEXT NOT NULL,
			processed_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (video_id, segment_num)
		);

		CREATE TABLE IF NOT EXISTS exclusions (
			video_id    TEXT NOT NULL,
			segment_num INT NOT NULL,
			transcript  TEXT NOT NULL,
			reason      TEXT NOT NULL,
			excluded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (video_id, segment_num)
		);

		CREATE INDEX IF NOT EXISTS idx_exclusions_reason ON exclusions (reason);
	`)
	return err
}
