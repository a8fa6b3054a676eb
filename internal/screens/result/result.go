package result

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/quiz"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// recordedMsg reports the outcome of persisting the result.
type recordedMsg struct {
	previous int
	record   highscore.Record
	err      error
}

// ResultScreen shows a finished quiz and saves its score.
type ResultScreen struct {
	svc    *screens.Services
	planet planets.Planet
	result quiz.Result

	saved    bool
	previous int
	record   highscore.Record
	saveErr  error
}

var _ screen.Screen = (*ResultScreen)(nil)

// New creates the result screen. The score is recorded in Init.
func New(svc *screens.Services, p planets.Planet, r quiz.Result) *ResultScreen {
	return &ResultScreen{svc: svc, planet: p, result: r}
}

func (s *ResultScreen) Init() tea.Cmd {
	tracker, subject, score := s.svc.Tracker, s.planet.Name, s.result.Score
	return func() tea.Msg {
		ctx := context.Background()
		prev, _ := tracker.HighScore(ctx, subject)
		rec, err := tracker.RecordResult(ctx, subject, score)
		return recordedMsg{previous: prev, record: rec, err: err}
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordedMsg:
		s.saved = true
		if msg.err != nil {
			s.saveErr = msg.err
			s.svc.Logger().Warn("record result",
				zap.String("planet", s.planet.Name),
				zap.Stringer("result", s.result),
				zap.Error(msg.err),
			)
			return s, nil
		}
		s.previous, s.record = msg.previous, msg.record
		rec := msg.record
		return s, func() tea.Msg { return screens.ScoreRecordedMsg{Record: rec} }

	case tea.KeyPressMsg:
		if key.Matches(msg, keys.Enter) {
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	outcome := s.result.Outcome()

	headline := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(outcome.Message())
	score := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("You scored %s on %s", s.result, s.planet.Name))

	var b strings.Builder
	b.WriteString(headline + "\n\n" + score + "\n\n")
	b.WriteString(s.recordLine())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to go back"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}

func (s *ResultScreen) recordLine() string {
	switch {
	case !s.saved:
		return theme.Hint.Render("Saving your score…")
	case s.saveErr != nil:
		return theme.Warn.Render("Your score couldn't be saved this time.")
	case s.record.HighScore > s.previous && s.record.Attempts > 1:
		return theme.Correct.Render(fmt.Sprintf("★ New high score: %d!", s.record.HighScore))
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("★ High score %d", s.record.HighScore)) +
		theme.Hint.Render(fmt.Sprintf("   attempt #%d", s.record.Attempts))
}

func (s *ResultScreen) Title() string {
	return "Quiz Result"
}

// KeyHints returns the footer hints.
func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to " + s.planet.Name},
	}
}
