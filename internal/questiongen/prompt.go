package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/solarquiz/internal/planets"
)

const systemPrompt = `You write quiz questions about the planets for children aged 8-12.

Rules:
- Every question is multiple choice with exactly 4 short options and exactly one correct answer.
- Base questions on well-established facts about the planet. Avoid numbers that sources disagree on.
- Distractors should be plausible for a child, for example facts about a different planet.
- Keep prompts under 15 words. Plain text only.
- Do not repeat or rephrase any question from the "already asked" list.`

// buildUserMessage describes the planet and the questions to avoid.
func buildUserMessage(p planets.Planet, count int, existing []string, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Planet: %s\n", p.Name)
	fmt.Fprintf(&b, "About: %s\n", p.Description)
	fmt.Fprintf(&b, "Distance from the Sun: %s\n", p.Distance)
	fmt.Fprintf(&b, "Surface gravity: %s\n", p.Gravity)
	if p.FunFact != "" {
		fmt.Fprintf(&b, "Fun fact: %s\n", p.FunFact)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildPrior(existing, maxPrior))

	return b.String()
}

// buildPrior lists the most recent max prompts, or "None".
func buildPrior(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}

	var b strings.Builder
	for i, q := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
