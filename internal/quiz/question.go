package quiz

import "fmt"

// MinOptions is the smallest number of options a question may offer.
const MinOptions = 2

// Question is a single multiple-choice question. Questions are treated as
// immutable once handed to an Engine.
type Question struct {
	// Subject is the topic the question belongs to, e.g. a planet name.
	// It keys persisted high scores.
	Subject string

	// Prompt is the question text shown to the player.
	Prompt string

	// Options are the answer choices, in display order.
	Options []string

	// CorrectOption is the index into Options of the right answer.
	CorrectOption int
}

// ValidationError reports a malformed question in a question set.
type ValidationError struct {
	// Position is the zero-based index of the offending question.
	Position int
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Position, e.Reason)
}

// Validate checks every question in order and returns a *ValidationError
// for the first one that cannot be played fairly.
func Validate(questions []Question) error {
	for i, q := range questions {
		if reason := q.problem(); reason != "" {
			return &ValidationError{Position: i, Reason: reason}
		}
	}
	return nil
}

func (q Question) problem() string {
	switch {
	case len(q.Options) == 0:
		return "no options"
	case len(q.Options) < MinOptions:
		return fmt.Sprintf("needs at least %d options, has %d", MinOptions, len(q.Options))
	case q.CorrectOption < 0 || q.CorrectOption >= len(q.Options):
		return fmt.Sprintf("correct option %d out of range [0,%d)", q.CorrectOption, len(q.Options))
	}
	return ""
}

// clone copies the option slice so callers cannot mutate a running quiz.
func (q Question) clone() Question {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}
