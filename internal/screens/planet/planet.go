package planet

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
	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	quizscreen "github.com/abhisek/solarquiz/internal/screens/quiz"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// recordLoadedMsg carries the result of the initial lookup.
type recordLoadedMsg struct {
	sub    <-chan highscore.Record
	record highscore.Record
	err    error
}

// recordChangedMsg carries a committed record from the subscription. The
// planet screen may be covered by the quiz when it arrives.
type recordChangedMsg struct {
	sub    <-chan highscore.Record
	record highscore.Record
	closed bool
}

func (recordChangedMsg) Broadcast() {}

// PlanetScreen shows a planet's facts and its high score.
type PlanetScreen struct {
	svc    *screens.Services
	planet planets.Planet

	record    highscore.Record
	recordErr error
	loaded    bool

	sub         <-chan highscore.Record
	unsubscribe func()

	token      int
	playing    bool
	narrateErr error
}

var (
	_ screen.Screen = (*PlanetScreen)(nil)
	_ screen.Closer = (*PlanetScreen)(nil)
)

// New creates the detail screen for p.
func New(svc *screens.Services, p planets.Planet) *PlanetScreen {
	return &PlanetScreen{svc: svc, planet: p}
}

func (s *PlanetScreen) Init() tea.Cmd {
	s.sub, s.unsubscribe = s.svc.Tracker.Subscribe(s.planet.Name)

	if s.svc.Preferences(context.Background()).Autoplay {
		s.startNarration()
	}
	return tea.Batch(s.lookup(), s.listen())
}

func (s *PlanetScreen) lookup() tea.Cmd {
	tracker, subject, sub := s.svc.Tracker, s.planet.Name, s.sub
	return func() tea.Msg {
		rec, err := tracker.Lookup(context.Background(), subject)
		return recordLoadedMsg{sub: sub, record: rec, err: err}
	}
}

func (s *PlanetScreen) listen() tea.Cmd {
	sub := s.sub
	return func() tea.Msg {
		rec, ok := <-sub
		return recordChangedMsg{sub: sub, record: rec, closed: !ok}
	}
}

func (s *PlanetScreen) startNarration() {
	s.token = s.svc.Playback.Start(context.Background(), []string{s.planet.Narration()})
	s.playing = true
	s.narrateErr = nil
}

func (s *PlanetScreen) stopNarration() {
	if s.playing {
		s.svc.Playback.Stop()
		s.playing = false
	}
}

func (s *PlanetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		if msg.sub != s.sub {
			return s, nil
		}
		if msg.err != nil {
			s.recordErr = msg.err
			s.svc.Logger().Warn("load high score", zap.String("planet", s.planet.Name), zap.Error(msg.err))
			return s, nil
		}
		// A change may have landed first; keep the newer record.
		if !s.loaded || msg.record.Attempts > s.record.Attempts {
			s.record = msg.record
		}
		s.loaded = true
		return s, nil

	case recordChangedMsg:
		if msg.sub != s.sub || msg.closed {
			return s, nil
		}
		s.record, s.recordErr, s.loaded = msg.record, nil, true
		return s, s.listen()

	case playback.StateMsg:
		if msg.Token == s.token {
			s.playing = msg.State.Playing
		}
		return s, nil

	case playback.DoneMsg:
		if msg.Token == s.token {
			s.playing = false
			s.narrateErr = msg.Err
		}
		return s, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keys.Space):
			if s.playing {
				s.stopNarration()
			} else {
				s.startNarration()
			}
			return s, nil
		case key.Matches(msg, keys.Quiz), key.Matches(msg, keys.Enter):
			s.stopNarration()
			return s, router.Push(quizscreen.New(s.svc, s.planet))
		}
	}
	return s, nil
}

// Close stops this screen's narration and ends the subscription.
func (s *PlanetScreen) Close() {
	s.stopNarration()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *PlanetScreen) View(width, height int) string {
	accent := theme.PlanetColor(s.planet.Color)

	name := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(s.planet.Name)
	desc := lipgloss.NewStyle().Foreground(theme.Text).Width(max(min(width-8, 72), 20)).Render(s.planet.Description)

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(16)
	value := lipgloss.NewStyle().Foreground(theme.Text)
	facts := []string{
		label.Render("Distance") + value.Render(s.planet.Distance),
		label.Render("Gravity") + value.Render(s.planet.Gravity),
	}
	if s.planet.FunFact != "" {
		facts = append(facts, label.Render("Fun fact")+value.Render(s.planet.FunFact))
	}

	var b strings.Builder
	b.WriteString(name + "\n\n" + desc + "\n\n")
	b.WriteString(strings.Join(facts, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.scoreLine())
	b.WriteString("\n\n")
	b.WriteString(s.narrationLine())

	card := theme.Card.BorderForeground(accent).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *PlanetScreen) scoreLine() string {
	switch {
	case s.recordErr != nil:
		return theme.Warn.Render("High score unavailable right now.")
	case !s.loaded:
		return theme.Hint.Render("Loading high score…")
	case s.record.Attempts == 0:
		return theme.Hint.Render("No attempts yet. Press q to take the quiz!")
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("★ High score %d", s.record.HighScore)) +
		theme.Hint.Render(fmt.Sprintf("   %d attempt%s", s.record.Attempts, plural(s.record.Attempts)))
}

func (s *PlanetScreen) narrationLine() string {
	switch {
	case s.playing:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render("♪ Narrating…")
	case s.narrateErr != nil:
		return theme.Warn.Render("Narration unavailable: " + s.narrateErr.Error())
	}
	return theme.Hint.Render("Press Space to hear about " + s.planet.Name)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (s *PlanetScreen) Title() string {
	return s.planet.Name
}

// KeyHints returns the footer hints.
func (s *PlanetScreen) KeyHints() []layout.KeyHint {
	narrate := "Listen"
	if s.playing {
		narrate = "Stop"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: narrate},
		{Key: "q", Description: "Quiz"},
		{Key: "Esc", Description: "Back"},
	}
}
