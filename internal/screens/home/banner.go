package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/solarquiz/internal/ui/theme"
)

const titleFull = `  ·  ˚   ☉    S O L A R   Q U I Z    ☉   ˚  ·
 ˚    ·   ·  ✦  explore the planets  ✦  ·   ·    ˚`

const titleCompact = "☉ S O L A R  Q U I Z ☉"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	return max(min(frameWidth-6, 60), 20)
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows how many planets have been quizzed and the best
// scores added up.
func renderStatsBar(explored, planets, stars, cw int) string {
	exploredStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	starStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	stats := fmt.Sprintf("%s  %s",
		exploredStyle.Render(fmt.Sprintf("◉ %d/%d EXPLORED", explored, planets)),
		starStyle.Render(fmt.Sprintf("★ %d STARS", stars)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderFrame wraps content in a double border, centered in the given
// dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
