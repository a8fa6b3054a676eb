package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/solarquiz/internal/highscore"
)

// HighScoreRepo implements highscore.Backend on the high_scores table.
type HighScoreRepo struct {
	s *Store
}

var _ highscore.Backend = (*HighScoreRepo)(nil)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *HighScoreRepo) Load(ctx context.Context, key string) (highscore.Record, bool, error) {
	return loadHighScore(ctx, r.s.db, key)
}

func (r *HighScoreRepo) Update(ctx context.Context, key string, fn func(highscore.Record) highscore.Record) (highscore.Record, error) {
	var next highscore.Record
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		cur, ok, err := loadHighScore(ctx, tx, key)
		if err != nil {
			return err
		}
		if !ok {
			cur = highscore.Record{Key: key}
		}

		next = fn(cur)
		next.Key = key

		query, args := builder().Insert(tableHighScores).
			Columns("subject_key", "high_score", "attempts", "updated_at").
			Values(key, next.HighScore, next.Attempts, toMillis(next.UpdatedAt)).
			OnConflict(
				entsql.ConflictColumns("subject_key"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert high score: %w", err)
		}
		return nil
	})
	if err != nil {
		return highscore.Record{}, err
	}
	return next, nil
}

func (r *HighScoreRepo) List(ctx context.Context) ([]highscore.Record, error) {
	query, args := builder().
		Select("subject_key", "high_score", "attempts", "updated_at").
		From(builder().Table(tableHighScores)).
		OrderBy("subject_key").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list high scores: %w", err)
	}
	defer rows.Close()

	var out []highscore.Record
	for rows.Next() {
		var (
			rec     highscore.Record
			updated int64
		)
		if err := rows.Scan(&rec.Key, &rec.HighScore, &rec.Attempts, &updated); err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}
		rec.UpdatedAt = fromMillis(updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *HighScoreRepo) Clear(ctx context.Context) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		query, args := builder().Delete(tableHighScores).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear high scores: %w", err)
		}
		return nil
	})
}

func loadHighScore(ctx context.Context, q queryer, key string) (highscore.Record, bool, error) {
	query, args := builder().
		Select("high_score", "attempts", "updated_at").
		From(builder().Table(tableHighScores)).
		Where(entsql.EQ("subject_key", key)).
		Query()

	rec := highscore.Record{Key: key}
	var updated int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&rec.HighScore, &rec.Attempts, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return highscore.Record{}, false, nil
	}
	if err != nil {
		return highscore.Record{}, false, fmt.Errorf("load high score: %w", err)
	}
	rec.UpdatedAt = fromMillis(updated)
	return rec, true, nil
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
