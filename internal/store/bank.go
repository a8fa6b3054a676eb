package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/quiz"
)

// BankRepo stores generated questions per subject. Prompts are unique
// within a subject.
type BankRepo struct {
	s *Store
}

// Add inserts questions for subject, skipping prompts already banked.
// It returns how many were inserted.
func (r *BankRepo) Add(ctx context.Context, subject, model string, questions []quiz.Question) (int, error) {
	key := highscore.NormalizeKey(subject)
	if key == "" {
		return 0, highscore.ErrInvalidSubject
	}
	if err := quiz.Validate(questions); err != nil {
		return 0, err
	}

	added := 0
	now := time.Now().UnixMilli()
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range questions {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
			query, args := builder().Insert(tableBankQuestions).
				Columns("subject_key", "prompt", "options", "correct_option", "model", "created_at").
				Values(key, q.Prompt, string(opts), q.CorrectOption, model, now).
				OnConflict(
					entsql.ConflictColumns("subject_key", "prompt"),
					entsql.DoNothing(),
				).
				Query()
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert bank question: %w", err)
			}
			if n, err := res.RowsAffected(); err == nil {
				added += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// List returns the banked questions for subject in insertion order.
func (r *BankRepo) List(ctx context.Context, subject string) ([]quiz.Question, error) {
	key := highscore.NormalizeKey(subject)
	query, args := builder().
		Select("prompt", "options", "correct_option").
		From(builder().Table(tableBankQuestions)).
		Where(entsql.EQ("subject_key", key)).
		OrderBy("id").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bank questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q := quiz.Question{Subject: subject}
		var opts string
		if err := rows.Scan(&q.Prompt, &opts, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("scan bank question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for %q: %w", q.Prompt, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Clear removes every banked question.
func (r *BankRepo) Clear(ctx context.Context) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		query, args := builder().Delete(tableBankQuestions).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear bank: %w", err)
		}
		return nil
	})
}
