// Package theme holds the palette and shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: night sky with sunlit highlights.
var (
	Primary   = lipgloss.Color("#7C83FD")
	Secondary = lipgloss.Color("#22D3EE")
	Accent    = lipgloss.Color("#FBBF24")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")

	success = lipgloss.Color("#22C55E")
	failure = lipgloss.Color("#F43F5E")
	warning = lipgloss.Color("#F97316")
)

// PlanetColor is the catalog color for a planet, or Primary when it has
// none.
func PlanetColor(hex string) color.Color {
	if hex == "" {
		return Primary
	}
	return lipgloss.Color(hex)
}

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Warn  = lipgloss.NewStyle().Foreground(warning)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Answer and menu states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(failure).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)
