package app

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/screens/home"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *screens.Services
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(svc *screens.Services) AppModel {
	return AppModel{
		svc:    svc,
		router: router.New(home.New(svc)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.listen())
}

// listen keeps one reader on the playback controller.
func (m AppModel) listen() tea.Cmd {
	if m.svc.Playback == nil {
		return nil
	}
	return m.svc.Playback.Listen()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case playback.StateMsg, playback.DoneMsg:
		return m, tea.Batch(m.router.Update(msg), m.listen())

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.router.CloseAll()
			return m, tea.Quit
		case key.Matches(msg, keys.Back):
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes the full frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if m.svc.Playback != nil && m.svc.Playback.Playing() {
		status = "♪ narrating  "
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. It stops any narration and closes
// open screens on exit.
func Run(svc *screens.Services) error {
	m := newAppModel(svc)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.router.CloseAll()
	if svc.Playback != nil {
		svc.Playback.Close()
	}
	if err != nil {
		svc.Logger().Error("program exited", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
