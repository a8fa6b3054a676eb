package narrator

import (
	"context"
	"errors"
)

// ErrEngineUnavailable is returned by Play when the speech engine could not
// be initialized.
var ErrEngineUnavailable = errors.New("speech engine unavailable")

// Voice carries synthesis settings through to the Speaker. The narrator
// does not interpret them.
type Voice struct {
	Rate  float64 // 1.0 is the engine default
	Pitch float64 // 1.0 is the engine default
}

// DefaultVoice is the engine-default voice.
var DefaultVoice = Voice{Rate: 1.0, Pitch: 1.0}

// Utterance is one speech request.
type Utterance struct {
	ID    string
	Text  string
	Voice Voice
}

// Speaker is the speech-synthesis capability the narrator drives.
type Speaker interface {
	// Speak starts speaking u and returns without waiting for it to finish.
	// The done channel yields (or is closed) when the utterance ends; a nil
	// channel means the engine cannot signal completion.
	Speak(ctx context.Context, u Utterance) (done <-chan error, err error)

	// Stop silences any utterance in progress. It must be safe to call at
	// any time, including repeatedly.
	Stop() error
}

// Preparer is implemented by speakers that need a readiness check before
// the first utterance.
type Preparer interface {
	Prepare(ctx context.Context) error
}
