package components

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/solarquiz/internal/ui/theme"
)

const minMeterWidth = 4

// Meter renders a solid bar width cells wide with fraction of it filled.
// fraction is clamped to [0, 1].
func Meter(fraction float64, width int) string {
	width = max(width, minMeterWidth)
	if math.IsNaN(fraction) {
		fraction = 0
	}
	filled := int(math.Round(float64(width) * min(max(fraction, 0), 1)))

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}

// LabeledMeter puts label in front of a meter so the line is width cells.
func LabeledMeter(label string, fraction float64, width int) string {
	if label == "" {
		return Meter(fraction, width)
	}
	head := theme.Body.Render(label) + "  "
	return head + Meter(fraction, width-lipgloss.Width(head))
}
