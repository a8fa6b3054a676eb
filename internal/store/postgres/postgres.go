// Package postgres stores high scores in PostgreSQL so several machines can
// share one scoreboard.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/solarquiz/internal/highscore"
)

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// DefaultPoolConfig suits a single interactive client.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxConns: 4, MaxConnLifetime: 30 * time.Minute}
}

// NewPool connects to dsn.
func NewPool(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

const createTable = `
	CREATE TABLE IF NOT EXISTS high_scores (
		subject_key TEXT PRIMARY KEY,
		high_score  INTEGER NOT NULL DEFAULT 0,
		attempts    INTEGER NOT NULL DEFAULT 0,
		updated_at  TIMESTAMPTZ
	)
`

// Backend implements highscore.Backend on a high_scores table.
type Backend struct {
	db *pgxpool.Pool
}

var _ highscore.Backend = (*Backend)(nil)

// NewBackend creates the table if needed.
func NewBackend(ctx context.Context, db *pgxpool.Pool) (*Backend, error) {
	if _, err := db.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create high_scores: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Load(ctx context.Context, key string) (highscore.Record, bool, error) {
	rec, err := scanRecord(b.db.QueryRow(ctx, `
		SELECT subject_key, high_score, attempts, updated_at
		FROM high_scores
		WHERE subject_key = $1
	`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return highscore.Record{}, false, nil
	}
	if err != nil {
		return highscore.Record{}, false, fmt.Errorf("load: %w", err)
	}
	return rec, true, nil
}

// Update locks the row for key, applies fn and upserts the result in one
// transaction. A missing row is created with ON CONFLICT so two first writes
// cannot both insert.
func (b *Backend) Update(ctx context.Context, key string, fn func(highscore.Record) highscore.Record) (highscore.Record, error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return highscore.Record{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Make sure a row exists to lock.
	if _, err := tx.Exec(ctx, `
		INSERT INTO high_scores (subject_key) VALUES ($1)
		ON CONFLICT (subject_key) DO NOTHING
	`, key); err != nil {
		return highscore.Record{}, fmt.Errorf("seed row: %w", err)
	}

	cur, err := scanRecord(tx.QueryRow(ctx, `
		SELECT subject_key, high_score, attempts, updated_at
		FROM high_scores
		WHERE subject_key = $1
		FOR UPDATE
	`, key))
	if err != nil {
		return highscore.Record{}, fmt.Errorf("lock row: %w", err)
	}

	next := fn(cur)
	next.Key = key

	var updated *time.Time
	if !next.UpdatedAt.IsZero() {
		updated = &next.UpdatedAt
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO high_scores (subject_key, high_score, attempts, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_key)
		DO UPDATE SET
			high_score = excluded.high_score,
			attempts = excluded.attempts,
			updated_at = excluded.updated_at
	`, key, next.HighScore, next.Attempts, updated); err != nil {
		return highscore.Record{}, fmt.Errorf("upsert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return highscore.Record{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (b *Backend) List(ctx context.Context) ([]highscore.Record, error) {
	rows, err := b.db.Query(ctx, `
		SELECT subject_key, high_score, attempts, updated_at
		FROM high_scores
		WHERE attempts > 0
		ORDER BY subject_key
	`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []highscore.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (b *Backend) Clear(ctx context.Context) error {
	if _, err := b.db.Exec(ctx, `DELETE FROM high_scores`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (highscore.Record, error) {
	var (
		rec     highscore.Record
		updated *time.Time
	)
	if err := row.Scan(&rec.Key, &rec.HighScore, &rec.Attempts, &updated); err != nil {
		return highscore.Record{}, err
	}
	if updated != nil {
		rec.UpdatedAt = updated.UTC()
	}
	return rec, nil
}
