package narrator

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// TextSpeaker "speaks" by writing each utterance as a line to w. It cannot
// tell when a listener has finished, so the narrator paces it by estimate.
// With io.Discard it is a silent stand-in when no speech engine exists.
type TextSpeaker struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextSpeaker returns a TextSpeaker writing to w.
func NewTextSpeaker(w io.Writer) *TextSpeaker {
	return &TextSpeaker{w: w}
}

func (s *TextSpeaker) Speak(_ context.Context, u Utterance) (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, u.Text); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *TextSpeaker) Stop() error { return nil }

// NewSilentSpeaker returns a TextSpeaker that discards everything.
func NewSilentSpeaker() *TextSpeaker {
	return NewTextSpeaker(io.Discard)
}
