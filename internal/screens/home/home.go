package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/screens/planet"
	"github.com/abhisek/solarquiz/internal/screens/scores"
	"github.com/abhisek/solarquiz/internal/screens/settings"
	"github.com/abhisek/solarquiz/internal/screens/tour"
	"github.com/abhisek/solarquiz/internal/ui/components"
	"github.com/abhisek/solarquiz/internal/ui/layout"
)

// statsMsg carries the records behind the stats bar.
type statsMsg struct {
	records []highscore.Record
	err     error
}

// HomeScreen lists the planets and the app's other destinations.
type HomeScreen struct {
	svc  *screens.Services
	menu components.Menu

	explored int
	stars    int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screens.Services) *HomeScreen {
	var items []components.MenuItem
	for _, p := range svc.Catalog.All() {
		items = append(items, components.MenuItem{
			Label:  p.Name,
			Detail: p.Distance,
			Action: func() tea.Cmd {
				return router.Push(planet.New(svc, p))
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "Planet tour", Detail: "narrated", Action: func() tea.Cmd {
			return router.Push(tour.New(svc))
		}},
		components.MenuItem{Label: "High scores", Action: func() tea.Cmd {
			return router.Push(scores.New(svc))
		}},
		components.MenuItem{Label: "Settings", Action: func() tea.Cmd {
			return router.Push(settings.New(svc))
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	return &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	tracker := h.svc.Tracker
	return func() tea.Msg {
		recs, err := tracker.List(context.Background())
		return statsMsg{records: recs, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ScoreRecordedMsg:
		return h, h.loadStats()
	case statsMsg:
		if msg.err != nil {
			h.svc.Logger().Warn("load stats", zap.Error(msg.err))
			return h, nil
		}
		h.explored, h.stars = 0, 0
		for _, r := range msg.records {
			if _, ok := h.svc.Catalog.Lookup(r.Key); ok && r.Attempts > 0 {
				h.explored++
				h.stars += r.HighScore
			}
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.explored, len(h.svc.Catalog.All()), h.stars, cw),
		lipgloss.NewStyle().Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// KeyHints returns the footer hints.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
