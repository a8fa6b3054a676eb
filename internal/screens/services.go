// Package screens holds what the TUI screens share: the services they call
// into and the messages they exchange with background work.
package screens

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/quiz"
	"github.com/abhisek/solarquiz/internal/store"
)

// ScoreRecordedMsg is broadcast after a quiz result is saved.
type ScoreRecordedMsg struct {
	Record highscore.Record
}

func (ScoreRecordedMsg) Broadcast() {}

// PreferenceStore loads and saves narration preferences.
type PreferenceStore interface {
	Load(ctx context.Context) (store.Preferences, error)
	Save(ctx context.Context, p store.Preferences) error
}

// QuestionSource returns the questions for a subject's quiz.
type QuestionSource func(ctx context.Context, subject string) ([]quiz.Question, error)

// Services are the dependencies handed to every screen.
type Services struct {
	Catalog   *planets.Catalog
	Tracker   *highscore.Tracker
	Playback  *playback.Controller
	Prefs     PreferenceStore
	Questions QuestionSource
	Log       *zap.Logger
}

// Logger returns Log, or a no-op logger.
func (s *Services) Logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Preferences loads the saved preferences, falling back to defaults.
func (s *Services) Preferences(ctx context.Context) store.Preferences {
	if s.Prefs == nil {
		return store.DefaultPreferences()
	}
	p, err := s.Prefs.Load(ctx)
	if err != nil {
		s.Logger().Warn("load preferences", zap.Error(err))
		return store.DefaultPreferences()
	}
	return p
}

// BuiltinQuestions serves the catalog's own quizzes.
func BuiltinQuestions(c *planets.Catalog) QuestionSource {
	return func(_ context.Context, subject string) ([]quiz.Question, error) {
		return c.Quiz(subject), nil
	}
}

// WithBank appends banked questions for the subject after the built-in
// ones. A bank failure is logged and the built-in quiz is still served.
func WithBank(base QuestionSource, bank *store.BankRepo, log *zap.Logger) QuestionSource {
	return func(ctx context.Context, subject string) ([]quiz.Question, error) {
		qs, err := base(ctx, subject)
		if err != nil {
			return nil, err
		}
		extra, err := bank.List(ctx, subject)
		if err != nil {
			log.Warn("load banked questions", zap.String("subject", subject), zap.Error(err))
			return qs, nil
		}
		return append(qs, extra...), nil
	}
}
