package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/solarquiz/internal/narrator"
)

func fastPacing() narrator.Option {
	return narrator.WithPacing(narrator.Pacing{MinFloor: time.Millisecond, PerWord: 0})
}

// collect reads messages until the DoneMsg for token arrives.
func collect(t *testing.T, c *Controller, token int) ([]StateMsg, DoneMsg) {
	t.Helper()
	var states []StateMsg
	deadline := time.After(2 * time.Second)
	for {
		msgCh := make(chan any, 1)
		go func() { msgCh <- c.Listen()() }()
		select {
		case <-deadline:
			t.Fatal("timed out waiting for playback to finish")
		case msg := <-msgCh:
			switch m := msg.(type) {
			case StateMsg:
				if m.Token == token {
					states = append(states, m)
				}
			case DoneMsg:
				if m.Token == token {
					return states, m
				}
			}
		}
	}
}

// awaitDone reads messages until a DoneMsg has arrived for every token.
func awaitDone(t *testing.T, c *Controller, tokens ...int) map[int]DoneMsg {
	t.Helper()
	want := map[int]bool{}
	for _, tok := range tokens {
		want[tok] = true
	}
	got := map[int]DoneMsg{}
	deadline := time.After(2 * time.Second)
	for len(got) < len(want) {
		msgCh := make(chan any, 1)
		go func() { msgCh <- c.Listen()() }()
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for tokens %v, have %d", tokens, len(got))
		case msg := <-msgCh:
			if m, ok := msg.(DoneMsg); ok && want[m.Token] {
				got[m.Token] = m
			}
		}
	}
	return got
}

func TestController_PlaysToCompletion(t *testing.T) {
	c := NewController(narrator.NewSilentSpeaker(), 0, nil, fastPacing())
	defer c.Close()

	token := c.Start(context.Background(), []string{"Mercury.", "Venus."})
	states, done := collect(t, c, token)

	assert.Equal(t, narrator.OutcomeCompleted, done.Outcome)
	assert.NoError(t, done.Err)
	require.NotEmpty(t, states)
	assert.Equal(t, narrator.State{Index: 0, Playing: true}, states[0].State)
	assert.Equal(t, narrator.State{Index: 1, Playing: false}, states[len(states)-1].State)
	assert.False(t, c.Playing())
}

func TestController_StartCancelsPrevious(t *testing.T) {
	slow := narrator.WithPacing(narrator.Pacing{MinFloor: time.Hour})
	c := NewController(narrator.NewSilentSpeaker(), 0, nil, slow)
	defer c.Close()

	first := c.Start(context.Background(), []string{"long"})
	second := c.Start(context.Background(), nil)
	assert.Greater(t, second, first)

	done := awaitDone(t, c, first, second)
	assert.Equal(t, narrator.OutcomeStopped, done[first].Outcome)
	assert.Equal(t, narrator.OutcomeCompleted, done[second].Outcome)
}

func TestController_StartWithFullQueue(t *testing.T) {
	c := NewController(narrator.NewSilentSpeaker(), 0, nil, fastPacing())
	defer c.Close()

	for len(c.events) < cap(c.events) {
		c.events <- StateMsg{}
	}
	first := c.Start(context.Background(), []string{"Mars."})

	started := make(chan int, 1)
	go func() { started <- c.Start(context.Background(), []string{"Venus."}) }()

	var second int
	select {
	case second = <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("Start blocked on an undelivered DoneMsg")
	}

	done := awaitDone(t, c, first, second)
	assert.Len(t, done, 2)
}

func TestController_Stop(t *testing.T) {
	slow := narrator.WithPacing(narrator.Pacing{MinFloor: time.Hour})
	c := NewController(narrator.NewSilentSpeaker(), 0, nil, slow)
	defer c.Close()

	token := c.Start(context.Background(), []string{"one", "two"})
	require.Eventually(t, c.Playing, time.Second, time.Millisecond)

	c.Stop()
	_, done := collect(t, c, token)
	assert.Equal(t, narrator.OutcomeStopped, done.Outcome)
}

func TestController_CloseReleasesListen(t *testing.T) {
	c := NewController(narrator.NewSilentSpeaker(), 0, nil)
	c.Close()
	assert.Nil(t, c.Listen()())
}
