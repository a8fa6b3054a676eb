package narrator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSpeaker records utterances. With signal set it hands out completion
// channels that close after a millisecond, unless the text is in hold, in
// which case only Stop closes them.
type fakeSpeaker struct {
	signal     bool
	hold       map[string]bool
	failOn     map[string]error
	prepareErr error

	started chan string

	mu      sync.Mutex
	spoken  []string
	stops   int
	current *fakeUtterance
}

type fakeUtterance struct {
	done chan error
	once sync.Once
}

func (u *fakeUtterance) finish() { u.once.Do(func() { close(u.done) }) }

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{
		signal:  true,
		hold:    map[string]bool{},
		failOn:  map[string]error{},
		started: make(chan string, 16),
	}
}

func (f *fakeSpeaker) Prepare(context.Context) error { return f.prepareErr }

func (f *fakeSpeaker) Speak(_ context.Context, u Utterance) (<-chan error, error) {
	f.mu.Lock()
	f.spoken = append(f.spoken, u.Text)
	f.mu.Unlock()
	f.started <- u.Text

	if err := f.failOn[u.Text]; err != nil {
		return nil, err
	}
	if !f.signal {
		return nil, nil
	}

	fu := &fakeUtterance{done: make(chan error)}
	f.mu.Lock()
	f.current = fu
	f.mu.Unlock()
	if !f.hold[u.Text] {
		time.AfterFunc(time.Millisecond, fu.finish)
	}
	return fu.done, nil
}

func (f *fakeSpeaker) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.current != nil {
		f.current.finish()
	}
	return nil
}

func (f *fakeSpeaker) Spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func (f *fakeSpeaker) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func waitStarted(t *testing.T, f *fakeSpeaker, want string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

type playResult struct {
	outcome Outcome
	err     error
}

func playAsync(n *Narrator, ctx context.Context, items []string, gap time.Duration) <-chan playResult {
	ch := make(chan playResult, 1)
	go func() {
		o, err := n.Play(ctx, items, gap)
		ch <- playResult{o, err}
	}()
	return ch
}

func awaitResult(t *testing.T, ch <-chan playResult) playResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return")
		return playResult{}
	}
}

func TestPlay_EmptyCompletesImmediately(t *testing.T) {
	f := newFakeSpeaker()
	n := New(f)

	o, err := n.Play(context.Background(), nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o)
	assert.Empty(t, f.Spoken())
	assert.False(t, n.Playing())
}

func TestPlay_SpeaksInOrder(t *testing.T) {
	f := newFakeSpeaker()
	var states []State
	n := New(f, WithStateHandler(func(s State) { states = append(states, s) }))

	o, err := n.Play(context.Background(), []string{"one", "two", "three"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o)
	assert.Equal(t, []string{"one", "two", "three"}, f.Spoken())
	assert.Equal(t, []State{
		{Index: 0, Playing: true},
		{Index: 1, Playing: true},
		{Index: 2, Playing: true},
		{Index: 2, Playing: false},
	}, states)
	assert.False(t, n.Playing())
}

func TestPlay_EstimatedDurationWithoutCompletion(t *testing.T) {
	f := newFakeSpeaker()
	f.signal = false
	n := New(f, WithPacing(Pacing{MinFloor: 20 * time.Millisecond, PerWord: time.Millisecond}))

	start := time.Now()
	o, err := n.Play(context.Background(), []string{"a", "b"}, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPlay_CancelDuringFirstItem(t *testing.T) {
	f := newFakeSpeaker()
	f.hold["one"] = true
	n := New(f)

	ch := playAsync(n, context.Background(), []string{"one", "two"}, 0)
	waitStarted(t, f, "one")
	require.True(t, n.Playing())

	n.Cancel()
	r := awaitResult(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, OutcomeStopped, r.outcome)
	assert.Equal(t, []string{"one"}, f.Spoken())
	assert.Equal(t, 1, f.Stops())
	assert.False(t, n.Playing())
}

func TestPlay_CancelDuringLastItem(t *testing.T) {
	f := newFakeSpeaker()
	f.hold["only"] = true
	n := New(f)

	ch := playAsync(n, context.Background(), []string{"only"}, 0)
	waitStarted(t, f, "only")
	n.Cancel()

	r := awaitResult(t, ch)
	assert.Equal(t, OutcomeStopped, r.outcome)
}

func TestPlay_CancelDuringGap(t *testing.T) {
	f := newFakeSpeaker()
	n := New(f)

	start := time.Now()
	ch := playAsync(n, context.Background(), []string{"one", "two"}, time.Minute)
	waitStarted(t, f, "one")
	time.Sleep(10 * time.Millisecond)
	n.Cancel()

	r := awaitResult(t, ch)
	assert.Equal(t, OutcomeStopped, r.outcome)
	assert.Equal(t, []string{"one"}, f.Spoken())
	assert.Less(t, time.Since(start), time.Minute)
}

func TestPlay_ContextCancellation(t *testing.T) {
	f := newFakeSpeaker()
	f.hold["one"] = true
	n := New(f)

	ctx, cancel := context.WithCancel(context.Background())
	ch := playAsync(n, ctx, []string{"one", "two"}, 0)
	waitStarted(t, f, "one")
	cancel()

	r := awaitResult(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, OutcomeStopped, r.outcome)
	assert.Equal(t, []string{"one"}, f.Spoken())
	assert.GreaterOrEqual(t, f.Stops(), 1)
}

func TestPlay_ItemErrorCountsAsFinished(t *testing.T) {
	f := newFakeSpeaker()
	f.failOn["two"] = errors.New("synthesis failed")
	n := New(f)

	o, err := n.Play(context.Background(), []string{"one", "two", "three"}, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o)
	assert.Equal(t, []string{"one", "two", "three"}, f.Spoken())
}

func TestPlay_EngineUnavailable(t *testing.T) {
	f := newFakeSpeaker()
	f.prepareErr = errors.New("no voices installed")
	n := New(f)

	_, err := n.Play(context.Background(), []string{"one"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Empty(t, f.Spoken())
	assert.False(t, n.Playing())
}

// slowPrepare holds Prepare until release is closed.
type slowPrepare struct {
	*fakeSpeaker
	preparing chan struct{}
	release   chan struct{}
}

func (s *slowPrepare) Prepare(context.Context) error {
	close(s.preparing)
	<-s.release
	return nil
}

func TestPlay_CancelWhilePreparing(t *testing.T) {
	s := &slowPrepare{
		fakeSpeaker: newFakeSpeaker(),
		preparing:   make(chan struct{}),
		release:     make(chan struct{}),
	}
	n := New(s)

	ch := playAsync(n, context.Background(), []string{"a", "b", "c"}, 0)
	<-s.preparing
	require.True(t, n.Playing())

	n.Cancel()
	close(s.release)

	r := awaitResult(t, ch)
	require.NoError(t, r.err)
	assert.Equal(t, OutcomeStopped, r.outcome)
	assert.Empty(t, s.Spoken())
	assert.False(t, n.Playing())
}

func TestPlay_PrepareHonorsCancel(t *testing.T) {
	f := newFakeSpeaker()
	f.prepareErr = context.Canceled
	n := New(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o, err := n.Play(ctx, []string{"one"}, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStopped, o)
	assert.Empty(t, f.Spoken())
}

func TestPlay_NewSequenceCancelsPrevious(t *testing.T) {
	f := newFakeSpeaker()
	f.hold["a1"] = true
	n := New(f)

	first := playAsync(n, context.Background(), []string{"a1", "a2"}, 0)
	waitStarted(t, f, "a1")

	second := playAsync(n, context.Background(), []string{"b1"}, 0)

	r1 := awaitResult(t, first)
	r2 := awaitResult(t, second)
	assert.Equal(t, OutcomeStopped, r1.outcome)
	assert.Equal(t, OutcomeCompleted, r2.outcome)
	assert.Equal(t, []string{"a1", "b1"}, f.Spoken())
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFakeSpeaker()
	n := New(f)

	n.Cancel()
	n.Cancel()
	assert.Equal(t, 0, f.Stops())

	f.hold["one"] = true
	ch := playAsync(n, context.Background(), []string{"one"}, 0)
	waitStarted(t, f, "one")
	n.Cancel()
	n.Cancel()
	awaitResult(t, ch)
	n.Cancel()
	assert.Equal(t, 1, f.Stops())
}

func TestPlay_PassesVoice(t *testing.T) {
	var got Voice
	s := speakerFunc(func(u Utterance) { got = u.Voice })
	n := New(s, WithVoice(Voice{Rate: 1.5, Pitch: 0.8}), WithPacing(Pacing{}))

	_, err := n.Play(context.Background(), []string{"hi"}, 0)
	require.NoError(t, err)
	assert.Equal(t, Voice{Rate: 1.5, Pitch: 0.8}, got)
}

type speakerFunc func(Utterance)

func (f speakerFunc) Speak(_ context.Context, u Utterance) (<-chan error, error) {
	f(u)
	return nil, nil
}

func (f speakerFunc) Stop() error { return nil }

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
	}{
		{"", DefaultMinFloor},
		{"Mars", DefaultMinFloor},
		{"one two three four", DefaultMinFloor},
		{"one two three four five", 1500 * time.Millisecond},
		{"  spaced   out\twords\n here ", DefaultMinFloor},
		{"a b c d e f g h i j", 3 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateDuration(tt.text), "EstimateDuration(%q)", tt.text)
	}
}

func TestEngineArgs(t *testing.T) {
	tests := []struct {
		name   string
		engine string
		voice  Voice
		want   []string
	}{
		{"espeak default", "espeak-ng", DefaultVoice, []string{"-s", "175", "-p", "50", "--stdin"}},
		{"espeak fast high", "espeak", Voice{Rate: 2, Pitch: 1.5}, []string{"-s", "350", "-p", "75", "--stdin"}},
		{"espeak pitch clamped", "espeak", Voice{Rate: 1, Pitch: 3}, []string{"-s", "175", "-p", "99", "--stdin"}},
		{"zero voice uses defaults", "espeak", Voice{}, []string{"-s", "175", "-p", "50", "--stdin"}},
		{"say", "say", Voice{Rate: 0.5, Pitch: 2}, []string{"-r", "88", "-f", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engineArgs(tt.engine, tt.voice))
		})
	}
}

func TestEngineCommand_TextOnStdin(t *testing.T) {
	for _, engine := range knownEngines {
		t.Run(engine, func(t *testing.T) {
			text := "-v xx --version"
			cmd := engineCommand(context.Background(), "/usr/bin/"+engine, engine, Utterance{Text: text, Voice: DefaultVoice})

			assert.NotContains(t, cmd.Args, text)
			for _, arg := range cmd.Args {
				assert.NotEqual(t, "--version", arg)
			}
			require.NotNil(t, cmd.Stdin)
			got, err := io.ReadAll(cmd.Stdin)
			require.NoError(t, err)
			assert.Equal(t, text, string(got))
		})
	}
}

func TestDetectEngine(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		if name == "say" {
			return "/usr/bin/say", nil
		}
		return "", errors.New("not found")
	}
	engine, ok := DetectEngine()
	assert.True(t, ok)
	assert.Equal(t, "say", engine)

	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	_, ok = DetectEngine()
	assert.False(t, ok)
}

func TestCommandSpeaker_PrepareMissingBinary(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	n := New(NewCommandSpeaker("espeak-ng"))
	_, err := n.Play(context.Background(), []string{"hello"}, 0)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestCommandSpeaker_StopIdle(t *testing.T) {
	assert.NoError(t, NewCommandSpeaker("say").Stop())
}

func TestTextSpeaker(t *testing.T) {
	var buf bytes.Buffer
	n := New(NewTextSpeaker(&buf), WithPacing(Pacing{}))

	o, err := n.Play(context.Background(), []string{"Mercury.", "Venus."}, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o)
	assert.Equal(t, "Mercury.\nVenus.\n", buf.String())
}

type voiceSpeaker struct {
	mu     sync.Mutex
	voices []Voice
}

func (v *voiceSpeaker) Speak(_ context.Context, u Utterance) (<-chan error, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.voices = append(v.voices, u.Voice)
	done := make(chan error)
	close(done)
	return done, nil
}

func (v *voiceSpeaker) Stop() error { return nil }

func TestSetVoice_AppliesToLaterUtterances(t *testing.T) {
	sp := &voiceSpeaker{}
	n := New(sp, WithVoice(Voice{Rate: 1.5, Pitch: 0.8}))

	_, err := n.Play(context.Background(), []string{"one"}, 0)
	require.NoError(t, err)

	n.SetVoice(Voice{Rate: 0.5, Pitch: 2.0})
	_, err = n.Play(context.Background(), []string{"two"}, 0)
	require.NoError(t, err)

	assert.Equal(t, []Voice{{Rate: 1.5, Pitch: 0.8}, {Rate: 0.5, Pitch: 2.0}}, sp.voices)
}
