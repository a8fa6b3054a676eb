package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func TestMenu_SkipsDisabledItems(t *testing.T) {
	var chosen string
	pick := func(name string) func() tea.Cmd {
		return func() tea.Cmd { chosen = name; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "Pluto", Disabled: true},
		{Label: "Mercury", Action: pick("Mercury")},
		{Label: "Ceres", Disabled: true},
		{Label: "Venus", Action: pick("Venus")},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(press(tea.KeyDown))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(press(tea.KeyDown))
	assert.Equal(t, 3, m.Selected, "stays on the last enabled item")

	m, _ = m.Update(press(tea.KeyEnter))
	assert.Equal(t, "Venus", chosen)

	m, _ = m.Update(press(tea.KeyUp))
	assert.Equal(t, 1, m.Selected)

	view := m.View()
	assert.Contains(t, view, "▸ Mercury")
	assert.Contains(t, view, "    Pluto")
}

func TestMultiChoice_View(t *testing.T) {
	mc := MultiChoice{
		Question: "How many moons does Mars have?",
		Options:  []string{"One", "Two", "Three"},
		Cursor:   1,
		Selected: 1,
		Correct:  1,
	}
	view := mc.View()
	assert.Contains(t, view, "How many moons does Mars have?")
	assert.Contains(t, view, "▸ (•) B)  Two")
	assert.Contains(t, view, "( ) C)  Three")

	mc.Answered = true
	assert.NotContains(t, mc.View(), "▸")
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", optionLabel(0))
	assert.Equal(t, "Z", optionLabel(25))
	assert.Equal(t, "27", optionLabel(26))
}

func TestMeter(t *testing.T) {
	for _, frac := range []float64{-1, 0, 0.5, 1, 3} {
		assert.Equal(t, 20, lipgloss.Width(Meter(frac, 20)), "fraction %v", frac)
	}
	assert.Equal(t, minMeterWidth, lipgloss.Width(Meter(0.5, 1)))

	line := LabeledMeter("Question 2 of 4", 0.25, 40)
	require.True(t, strings.Contains(line, "Question 2 of 4"))
	assert.Equal(t, 40, lipgloss.Width(line))
}
