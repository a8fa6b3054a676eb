package settings

import (
	"context"
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/narrator"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/store"
	"github.com/abhisek/solarquiz/internal/ui/components"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// Step is the rate and pitch increment.
const Step = 0.1

const (
	rowRate = iota
	rowPitch
	rowAutoplay
	rowCount
)

// savedMsg reports a preference save.
type savedMsg struct {
	err error
}

// SettingsScreen edits narration preferences. Every change is saved
// immediately and applied to the narrator.
type SettingsScreen struct {
	svc   *screens.Services
	prefs store.Preferences
	row   int

	saveErr error
}

var _ screen.Screen = (*SettingsScreen)(nil)

// New creates the settings screen with the saved preferences.
func New(svc *screens.Services) *SettingsScreen {
	return &SettingsScreen{
		svc:   svc,
		prefs: svc.Preferences(context.Background()),
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saveErr = msg.err
		if msg.err != nil {
			s.svc.Logger().Warn("save preferences", zap.Error(msg.err))
		}
		return s, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.row = (s.row + rowCount - 1) % rowCount
		case key.Matches(msg, keys.Down):
			s.row = (s.row + 1) % rowCount
		case key.Matches(msg, keys.Left):
			return s, s.adjust(-Step)
		case key.Matches(msg, keys.Right):
			return s, s.adjust(Step)
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Space):
			if s.row == rowAutoplay {
				s.prefs.Autoplay = !s.prefs.Autoplay
				return s, s.save()
			}
		}
	}
	return s, nil
}

func (s *SettingsScreen) adjust(delta float64) tea.Cmd {
	switch s.row {
	case rowRate:
		s.prefs.TTSRate = round(s.prefs.TTSRate + delta)
	case rowPitch:
		s.prefs.TTSPitch = round(s.prefs.TTSPitch + delta)
	case rowAutoplay:
		s.prefs.Autoplay = delta > 0
	}
	s.prefs = s.prefs.Clamp()
	return s.save()
}

// round keeps repeated steps from drifting off the 0.1 grid.
func round(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *SettingsScreen) save() tea.Cmd {
	if s.svc.Playback != nil {
		s.svc.Playback.SetVoice(narrator.Voice{Rate: s.prefs.TTSRate, Pitch: s.prefs.TTSPitch})
	}
	if s.svc.Prefs == nil {
		return nil
	}
	prefs, repo := s.prefs, s.svc.Prefs
	return func() tea.Msg {
		return savedMsg{err: repo.Save(context.Background(), prefs)}
	}
}

// Preferences returns the values currently shown.
func (s *SettingsScreen) Preferences() store.Preferences {
	return s.prefs
}

func (s *SettingsScreen) View(width, height int) string {
	barWidth := 30
	span := store.MaxVoiceValue - store.MinVoiceValue

	rows := []string{
		s.render(rowRate, "Speech rate", fmt.Sprintf("%.1fx  ", s.prefs.TTSRate)+
			components.Meter((s.prefs.TTSRate-store.MinVoiceValue)/span, barWidth)),
		s.render(rowPitch, "Pitch", fmt.Sprintf("%.1fx  ", s.prefs.TTSPitch)+
			components.Meter((s.prefs.TTSPitch-store.MinVoiceValue)/span, barWidth)),
		s.render(rowAutoplay, "Read planets aloud", onOff(s.prefs.Autoplay)),
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Narration"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rows, "\n\n"))
	b.WriteString("\n\n")
	if s.saveErr != nil {
		b.WriteString(theme.Warn.Render("Settings couldn't be saved."))
	} else {
		b.WriteString(theme.Hint.Render("Changes are saved automatically."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}

func (s *SettingsScreen) render(row int, label, value string) string {
	prefix, style := "    ", theme.Unselected
	if s.row == row {
		prefix, style = "  ▸ ", theme.Selected
	}
	return style.Width(26).Render(prefix+label) + value
}

func onOff(b bool) string {
	if b {
		return theme.Correct.Render("On")
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("Off")
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

// KeyHints returns the footer hints.
func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "←→", Description: "Adjust"},
		{Key: "Enter", Description: "Toggle"},
		{Key: "Esc", Description: "Back"},
	}
}
