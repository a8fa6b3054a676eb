package narrator

import (
	"strings"
	"time"
)

// Fallback pacing for engines without completion events. Coarse on purpose:
// roughly 200 words per minute, never shorter than a short phrase.
const (
	DefaultMinFloor = 1200 * time.Millisecond
	DefaultPerWord  = 300 * time.Millisecond
	DefaultGap      = 300 * time.Millisecond
)

// Pacing holds the estimate constants.
type Pacing struct {
	MinFloor time.Duration
	PerWord  time.Duration
}

// DefaultPacing returns the documented defaults.
func DefaultPacing() Pacing {
	return Pacing{MinFloor: DefaultMinFloor, PerWord: DefaultPerWord}
}

// Estimate returns max(MinFloor, words*PerWord) for text.
func (p Pacing) Estimate(text string) time.Duration {
	words := len(strings.Fields(text))
	return max(p.MinFloor, time.Duration(words)*p.PerWord)
}

// EstimateDuration applies the default pacing to text.
func EstimateDuration(text string) time.Duration {
	return DefaultPacing().Estimate(text)
}
