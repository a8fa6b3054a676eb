// Package playback runs narrations in the background and reports their
// progress to the Bubble Tea program as messages.
package playback

import (
	"context"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/narrator"
)

// StateMsg reports a narration state change. Token identifies the Start
// call it belongs to.
type StateMsg struct {
	Token int
	State narrator.State
}

// Broadcast lets a covered screen track its own narration.
func (StateMsg) Broadcast() {}

// DoneMsg is delivered once per Start when its narration ends.
type DoneMsg struct {
	Token   int
	Outcome narrator.Outcome
	Err     error
}

func (DoneMsg) Broadcast() {}

// Controller owns the app's single Narrator. Starting a narration stops the
// one in progress first, so the speech engine is never shared.
type Controller struct {
	narrator *narrator.Narrator
	gap      time.Duration
	log      *zap.Logger

	events chan tea.Msg
	closed chan struct{}

	mu      sync.Mutex
	token   int
	cancel  context.CancelFunc
	running chan struct{} // closed when the current run's Play returns
}

// NewController builds the narrator over speaker. opts are passed through
// to narrator.New; the state handler is set by the controller.
func NewController(speaker narrator.Speaker, gap time.Duration, log *zap.Logger, opts ...narrator.Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		gap:    gap,
		log:    log,
		events: make(chan tea.Msg, 32),
		closed: make(chan struct{}),
	}
	opts = append(opts, narrator.WithLogger(log), narrator.WithStateHandler(c.onState))
	c.narrator = narrator.New(speaker, opts...)
	return c
}

// Start stops any narration in progress, waits for it to wind down, then
// begins speaking items in the background. It returns the token carried by
// the run's messages.
func (c *Controller) Start(ctx context.Context, items []string) int {
	c.Stop()
	c.Wait()

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.token++
	token := c.token
	done := make(chan struct{})
	c.running = done
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		outcome, err := c.narrator.Play(ctx, items, c.gap)
		cancel()
		if err != nil {
			c.log.Warn("narration failed", zap.Int("token", token), zap.Error(err))
		} else {
			c.log.Debug("narration ended", zap.Int("token", token), zap.Stringer("outcome", outcome))
		}
		// Closed before the send: Start waits on done from the update loop,
		// and only the update loop drains events.
		close(done)
		c.send(DoneMsg{Token: token, Outcome: outcome, Err: err}, true)
	}()
	return token
}

// Stop cancels the narration in progress. The speaker is silenced before
// Stop returns.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		// Covers a run whose goroutine has not reached Play yet.
		cancel()
	}
	c.narrator.Cancel()
}

// SetVoice applies v to later utterances.
func (c *Controller) SetVoice(v narrator.Voice) {
	c.narrator.SetVoice(v)
}

// Playing reports whether a narration is active.
func (c *Controller) Playing() bool {
	return c.narrator.Playing()
}

// Wait blocks until the current run, if any, has returned.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.running
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops playback and releases any pending Listen.
func (c *Controller) Close() {
	c.Stop()
	c.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

// Listen waits for the next playback message. The app re-issues it after
// every message so exactly one reader is outstanding.
func (c *Controller) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-c.events:
			return msg
		case <-c.closed:
			return nil
		}
	}
}

func (c *Controller) onState(s narrator.State) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	c.send(StateMsg{Token: token, State: s}, false)
}

// send queues msg. State updates are dropped when the queue is full; a
// DoneMsg waits for room unless the controller is closed.
func (c *Controller) send(msg tea.Msg, mustDeliver bool) {
	if !mustDeliver {
		select {
		case c.events <- msg:
		default:
			c.log.Debug("playback queue full, dropping state update")
		}
		return
	}
	select {
	case c.events <- msg:
	case <-c.closed:
	}
}
