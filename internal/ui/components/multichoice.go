package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// MultiChoice renders one multiple-choice question. It holds no state of
// its own; the quiz engine decides what is selected and when it is locked.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int  // highlighted option while unanswered
	Selected int  // chosen option, -1 for none
	Answered bool // reveal correct and wrong answers
	Correct  int
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Answered {
			prefix = "▸ "
		}
		mark := "( )"
		if i == m.Selected {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, optionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.Answered && i == m.Correct:
			style = theme.Correct
		case m.Answered && i == m.Selected:
			style = theme.Incorrect
		case m.Answered:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// optionLabel returns A, B, C, ... for option i.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}
