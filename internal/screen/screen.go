package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/solarquiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources, such as a running
// narration, that must be released when the screen leaves the stack.
type Closer interface {
	Close()
}

// Broadcast marks messages the router delivers to every screen on the
// stack, not just the active one. Background work owned by a covered
// screen, such as a subscription it listens on, reports through these.
type Broadcast interface {
	Broadcast()
}
