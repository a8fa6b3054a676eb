// Package keys holds the key bindings shared by every screen.
package keys

import "charm.land/bubbles/v2/key"

var (
	Up = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)
	Down = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)
	Left = key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease"),
	)
	Right = key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase"),
	)
	Enter = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	)
	Space = key.NewBinding(
		key.WithKeys("space"),
		key.WithHelp("Space", "play/stop"),
	)
	Reset = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "clear choice"),
	)
	Quiz = key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quiz"),
	)
	Back = key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	)
	Quit = key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+C", "quit"),
	)
)

// Digit returns 0-8 for the keys "1" through "9", or -1.
func Digit(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}
