package narrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome reports how a Play call ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota // Every item was spoken
	OutcomeStopped                  // Cancelled before the end
)

func (o Outcome) String() string {
	if o == OutcomeStopped {
		return "stopped"
	}
	return "completed"
}

// State is reported on every playback change. Index is the item being
// spoken, or the item playback ended on when Playing is false.
type State struct {
	Index   int
	Playing bool
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithPacing sets the duration estimate used for engines that cannot
// signal completion.
func WithPacing(p Pacing) Option {
	return func(n *Narrator) { n.pacing = p }
}

// WithVoice sets the voice passed with every utterance.
func WithVoice(v Voice) Option {
	return func(n *Narrator) { n.voice = v }
}

// WithStateHandler registers fn for playback state changes. fn runs on the
// goroutine that called Play and must not call Play itself.
func WithStateHandler(fn func(State)) Option {
	return func(n *Narrator) { n.onState = fn }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(n *Narrator) { n.log = l }
}

// Narrator speaks sequences of passages through a single Speaker. It owns
// the speaker exclusively: starting a new sequence cancels the previous one
// and waits for it to wind down first.
type Narrator struct {
	speaker Speaker
	pacing  Pacing
	voice   Voice
	onState func(State)
	log     *zap.Logger

	handoff sync.Mutex // serializes the start of Play calls

	mu     sync.Mutex // guards active and every Speak/Stop on speaker
	active *run
}

type run struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New creates a Narrator driving speaker.
func New(speaker Speaker, opts ...Option) *Narrator {
	n := &Narrator{
		speaker: speaker,
		pacing:  DefaultPacing(),
		voice:   DefaultVoice,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Play speaks items in order, waiting for each to finish (or for its
// estimated duration) and then for gap before the next. It blocks until the
// sequence completes or is cancelled through Cancel or ctx. Cancellation is
// not an error: it yields OutcomeStopped. The only error is a speech engine
// that fails to initialize, reported before anything is spoken.
func (n *Narrator) Play(ctx context.Context, items []string, gap time.Duration) (Outcome, error) {
	if len(items) == 0 {
		return OutcomeCompleted, nil
	}

	r, err := n.begin(ctx)
	if err != nil {
		return OutcomeStopped, err
	}
	if r.ctx.Err() != nil {
		// Cancelled before the first utterance.
		n.release(r)
		return OutcomeStopped, nil
	}

	for i, text := range items {
		n.emit(State{Index: i, Playing: true})

		done, ok := n.speak(r, text)
		if !ok {
			return n.finish(r, i, OutcomeStopped), nil
		}
		if !n.await(r, text, done) {
			return n.finish(r, i, OutcomeStopped), nil
		}
		if i < len(items)-1 && !sleep(r.ctx, gap) {
			n.stopEngine(r)
			return n.finish(r, i, OutcomeStopped), nil
		}
	}

	return n.finish(r, len(items)-1, OutcomeCompleted), nil
}

// Cancel stops the active sequence, silencing the speaker before it
// returns. It is a no-op when nothing is playing.
func (n *Narrator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.active == nil {
		return
	}
	n.active.cancel()
	n.stopLocked(n.active)
}

// SetVoice changes the voice used from the next utterance on.
func (n *Narrator) SetVoice(v Voice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.voice = v
}

// Playing reports whether a sequence is active.
func (n *Narrator) Playing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active != nil
}

// begin installs a new run, then waits out any previous one and prepares
// the engine. The run is active from the start so Cancel reaches it during
// the handoff too.
func (n *Narrator) begin(ctx context.Context) (*run, error) {
	n.handoff.Lock()
	defer n.handoff.Unlock()

	rctx, cancel := context.WithCancel(ctx)
	r := &run{ctx: rctx, cancel: cancel, done: make(chan struct{})}

	n.mu.Lock()
	prev := n.active
	if prev != nil {
		prev.cancel()
		n.stopLocked(prev)
	}
	n.active = r
	n.mu.Unlock()
	if prev != nil {
		<-prev.done
	}

	if p, ok := n.speaker.(Preparer); ok {
		if err := p.Prepare(rctx); err != nil && rctx.Err() == nil {
			n.release(r)
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
	}
	return r, nil
}

// release ends r without reporting any state.
func (n *Narrator) release(r *run) {
	n.retire(r)
	close(r.done)
}

func (n *Narrator) retire(r *run) {
	n.mu.Lock()
	if n.active == r {
		n.active = nil
	}
	n.mu.Unlock()
	r.cancel()
}

// speak issues one utterance unless r was cancelled. Holding mu here means
// a concurrent Cancel either sees no utterance yet (and none will start) or
// stops the one just issued.
func (n *Narrator) speak(r *run, text string) (<-chan error, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if r.ctx.Err() != nil {
		n.stopLocked(r)
		return nil, false
	}

	u := Utterance{ID: uuid.NewString(), Text: text, Voice: n.voice}
	done, err := n.speaker.Speak(r.ctx, u)
	if err != nil {
		// A failed utterance counts as spoken so the sequence keeps moving.
		n.log.Debug("utterance failed", zap.String("id", u.ID), zap.Error(err))
		finished := make(chan error)
		close(finished)
		return finished, true
	}
	return done, true
}

// await blocks until the utterance ends. It returns false on cancellation,
// after stopping the engine.
func (n *Narrator) await(r *run, text string, done <-chan error) bool {
	if done == nil {
		if !sleep(r.ctx, n.pacing.Estimate(text)) {
			n.stopEngine(r)
			return false
		}
		return true
	}

	select {
	case <-r.ctx.Done():
		n.stopEngine(r)
		return false
	case err := <-done:
		if r.ctx.Err() != nil {
			// Ended because it was stopped.
			n.stopEngine(r)
			return false
		}
		if err != nil {
			n.log.Debug("utterance ended with error", zap.Error(err))
		}
		return true
	}
}

func (n *Narrator) stopEngine(r *run) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked(r)
}

func (n *Narrator) stopLocked(r *run) {
	if r.stopped {
		return
	}
	r.stopped = true
	if err := n.speaker.Stop(); err != nil {
		n.log.Debug("stop speaker", zap.Error(err))
	}
}

func (n *Narrator) finish(r *run, index int, outcome Outcome) Outcome {
	n.retire(r)
	n.emit(State{Index: index, Playing: false})
	close(r.done)
	return outcome
}

func (n *Narrator) emit(s State) {
	if n.onState != nil {
		n.onState(s)
	}
}

// sleep waits for d or until ctx is done. It reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
