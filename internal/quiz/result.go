package quiz

import "fmt"

// Result is the outcome of a finished quiz.
type Result struct {
	Score int
	Total int
}

// Outcome buckets a result for the end-of-quiz message.
type Outcome int

const (
	OutcomeTryAgain Outcome = iota
	OutcomeGoodScore
	OutcomeFullMarks
)

// Outcome classifies r. At least half of the questions right is a good
// score.
func (r Result) Outcome() Outcome {
	switch {
	case r.Score == r.Total:
		return OutcomeFullMarks
	case 2*r.Score >= r.Total:
		return OutcomeGoodScore
	default:
		return OutcomeTryAgain
	}
}

// Message is the headline shown with the result.
func (o Outcome) Message() string {
	switch o {
	case OutcomeFullMarks:
		return "Full marks! You're a space expert!"
	case OutcomeGoodScore:
		return "Great job! Keep exploring!"
	default:
		return "Nice try! Give it another go."
	}
}

func (r Result) String() string {
	return fmt.Sprintf("%d/%d", r.Score, r.Total)
}
