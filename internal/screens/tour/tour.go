package tour

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/solarquiz/internal/narrator"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// TourScreen narrates every planet in order from the Sun.
type TourScreen struct {
	svc     *screens.Services
	planets []planets.Planet

	token    int
	playing  bool
	current  int // -1 before the first narration
	finished bool
	err      error
}

var (
	_ screen.Screen = (*TourScreen)(nil)
	_ screen.Closer = (*TourScreen)(nil)
)

// New creates the tour screen.
func New(svc *screens.Services) *TourScreen {
	return &TourScreen{svc: svc, planets: svc.Catalog.All(), current: -1}
}

func (s *TourScreen) Init() tea.Cmd {
	return nil
}

func (s *TourScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case playback.StateMsg:
		if msg.Token == s.token {
			s.current = msg.State.Index
			s.playing = msg.State.Playing
		}

	case playback.DoneMsg:
		if msg.Token == s.token {
			s.playing = false
			s.err = msg.Err
			s.finished = msg.Err == nil && msg.Outcome == narrator.OutcomeCompleted
		}

	case tea.KeyPressMsg:
		if key.Matches(msg, keys.Space) || key.Matches(msg, keys.Enter) {
			if s.playing {
				s.stop()
			} else {
				s.start()
			}
		}
	}
	return s, nil
}

func (s *TourScreen) start() {
	s.token = s.svc.Playback.Start(context.Background(), s.svc.Catalog.Tour())
	s.playing = true
	s.finished = false
	s.err = nil
	s.current = 0
}

func (s *TourScreen) stop() {
	if s.playing {
		s.svc.Playback.Stop()
		s.playing = false
	}
}

// Close stops the tour when the screen is left.
func (s *TourScreen) Close() {
	s.stop()
}

func (s *TourScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("A Tour of the Solar System"))
	b.WriteString("\n\n")

	for i, p := range s.planets {
		marker := "   "
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.current && (s.playing || s.finished) {
			marker = " ♪ "
			style = lipgloss.NewStyle().Foreground(theme.PlanetColor(p.Color)).Bold(true)
		} else if s.current >= 0 && i < s.current {
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(marker + p.Name))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.err != nil:
		b.WriteString(theme.Warn.Render("Narration unavailable: " + s.err.Error()))
	case s.playing && s.current >= 0 && s.current < len(s.planets):
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(max(min(width-8, 64), 20)).
			Render(s.planets[s.current].Description))
	case s.finished:
		b.WriteString(theme.Correct.Render("Tour complete!"))
	case s.current >= 0:
		b.WriteString(theme.Hint.Render("Tour stopped. Press Space to start again."))
	default:
		b.WriteString(theme.Hint.Render("Press Space to start the tour."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}

func (s *TourScreen) Title() string {
	return "Planet Tour"
}

// KeyHints returns the footer hints.
func (s *TourScreen) KeyHints() []layout.KeyHint {
	action := "Start"
	if s.playing {
		action = "Stop"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: action},
		{Key: "Esc", Description: "Back"},
	}
}
