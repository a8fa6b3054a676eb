// Package layout draws the frame around every screen: a title bar, the
// screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// Below these the home screen switches to its compact banner.
const (
	compactWidth  = 100
	compactHeight = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < compactWidth }
func IsCompactHeight(height int) bool { return height < compactHeight }

// IsTooSmall reports whether the frame cannot be drawn at this size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the terminal with a resize request.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("Terminal too small!\n\nNeed %d x %d, have %d x %d.\nResize the window to keep exploring.",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(text)
}

// bar is the rounded box shared by the header and the footer.
func bar(width int) lipgloss.Style {
	return theme.Card.
		Width(width).
		Padding(0, 1)
}

// RenderHeader draws the app name on the left, title centered and status,
// such as the narration indicator, on the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("☉ Solar Quiz")
	mid := theme.Body.Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(status)

	// Border and padding take four columns.
	inner := max(width-4, 0)
	return bar(width).Render(spread(left, mid, right, inner))
}

// spread lays out three segments across width, keeping mid centered when
// there is room for it.
func spread(left, mid, right string, width int) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((width-mw)/2-lw, 1)
	gapR := max(width-lw-gapL-mw-rw, 1)
	return left + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right
}

// RenderFooter draws the key hints in order.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, giving the body whatever
// height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
