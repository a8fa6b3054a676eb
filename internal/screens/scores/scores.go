package scores

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

type listedMsg struct {
	records []highscore.Record
	err     error
}

// ScoresScreen lists every subject with a recorded attempt.
type ScoresScreen struct {
	svc     *screens.Services
	records []highscore.Record
	err     error
	loaded  bool
}

var _ screen.Screen = (*ScoresScreen)(nil)

// New creates the scores screen.
func New(svc *screens.Services) *ScoresScreen {
	return &ScoresScreen{svc: svc}
}

func (s *ScoresScreen) Init() tea.Cmd {
	tracker := s.svc.Tracker
	return func() tea.Msg {
		recs, err := tracker.List(context.Background())
		return listedMsg{records: recs, err: err}
	}
}

func (s *ScoresScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(listedMsg); ok {
		s.loaded = true
		s.records, s.err = msg.records, msg.err
		if msg.err != nil {
			s.svc.Logger().Warn("list high scores", zap.Error(msg.err))
		}
	}
	return s, nil
}

// displayName maps a record key back to the catalog's planet name.
func (s *ScoresScreen) displayName(key string) string {
	if p, ok := s.svc.Catalog.Lookup(key); ok {
		return p.Name
	}
	return key
}

func (s *ScoresScreen) View(width, height int) string {
	var body string
	switch {
	case !s.loaded:
		body = theme.Hint.Render("Loading…")
	case s.err != nil:
		body = theme.Warn.Render("High scores are unavailable right now.")
	case len(s.records) == 0:
		body = theme.Hint.Render("No quizzes taken yet.")
	default:
		body = s.table()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(body))
}

func (s *ScoresScreen) table() string {
	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	cell := lipgloss.NewStyle().Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-12s %6s %9s  %s", "PLANET", "BEST", "ATTEMPTS", "LAST PLAYED")))
	b.WriteString("\n")
	for _, r := range s.records {
		last := "-"
		if !r.UpdatedAt.IsZero() {
			last = r.UpdatedAt.Local().Format("Jan 2 15:04")
		}
		b.WriteString(cell.Render(fmt.Sprintf("%-12s %6d %9d  %s", s.displayName(r.Key), r.HighScore, r.Attempts, last)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ScoresScreen) Title() string {
	return "High Scores"
}

// KeyHints returns the footer hints.
func (s *ScoresScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
