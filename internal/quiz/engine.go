package quiz

// Phase is the state of a quiz session.
type Phase int

const (
	PhaseUnanswered Phase = iota // Current question open for selection
	PhaseAnswered                // Current question locked in
	PhaseFinished                // Last question advanced past; result delivered
	PhaseEmpty                   // Started without questions; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseUnanswered:
		return "unanswered"
	case PhaseAnswered:
		return "answered"
	case PhaseFinished:
		return "finished"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// noSelection marks an empty selection.
const noSelection = -1

// Option configures an Engine.
type Option func(*Engine)

// WithFinishHandler registers fn to receive the final result. It is called
// exactly once, when the session finishes, and never for an empty quiz.
func WithFinishHandler(fn func(Result)) Option {
	return func(e *Engine) {
		e.onFinish = fn
	}
}

// Engine drives a single quiz attempt. It is not safe for concurrent use;
// callers drive it from one event loop. Out-of-sequence calls are ignored
// rather than reported.
type Engine struct {
	questions []Question
	index     int
	selected  int
	answered  bool
	score     int
	phase     Phase
	onFinish  func(Result)
}

// Start validates questions and returns an engine positioned on the first
// one. A nil or empty question set yields an engine in PhaseEmpty.
func Start(questions []Question, opts ...Option) (*Engine, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}

	qs := make([]Question, len(questions))
	for i, q := range questions {
		qs[i] = q.clone()
	}

	e := &Engine{
		questions: qs,
		selected:  noSelection,
		phase:     PhaseUnanswered,
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(qs) == 0 {
		e.phase = PhaseEmpty
	}
	return e, nil
}

// Select picks option i on the current question. It reports whether the
// selection was applied.
func (e *Engine) Select(i int) bool {
	if e.phase != PhaseUnanswered {
		return false
	}
	if i < 0 || i >= len(e.questions[e.index].Options) {
		return false
	}
	e.selected = i
	return true
}

// ResetSelection clears the current selection while the question is open.
func (e *Engine) ResetSelection() bool {
	if e.phase != PhaseUnanswered {
		return false
	}
	e.selected = noSelection
	return true
}

// Submit locks in the current selection. Submitting with nothing selected
// counts as a wrong answer. It reports whether the submission was applied.
func (e *Engine) Submit() bool {
	if e.phase != PhaseUnanswered {
		return false
	}
	if e.selected != noSelection && e.selected == e.questions[e.index].CorrectOption {
		e.score++
	}
	e.answered = true
	e.phase = PhaseAnswered
	return true
}

// AdvanceOrFinish moves past an answered question. From the last question
// it finishes the session and returns the result with done=true; this
// happens at most once per engine.
func (e *Engine) AdvanceOrFinish() (res Result, done bool) {
	if e.phase != PhaseAnswered {
		return Result{}, false
	}

	if e.index+1 < len(e.questions) {
		e.index++
		e.selected = noSelection
		e.answered = false
		e.phase = PhaseUnanswered
		return Result{}, false
	}

	e.phase = PhaseFinished
	res = e.result()
	if e.onFinish != nil {
		e.onFinish(res)
	}
	return res, true
}

// Current returns the question on screen. ok is false for empty quizzes.
// After finishing, the last question is still returned.
func (e *Engine) Current() (q Question, ok bool) {
	if len(e.questions) == 0 {
		return Question{}, false
	}
	return e.questions[e.index].clone(), true
}

// Selected returns the selected option index, if any.
func (e *Engine) Selected() (int, bool) {
	if e.selected == noSelection {
		return 0, false
	}
	return e.selected, true
}

func (e *Engine) Index() int     { return e.index }
func (e *Engine) Total() int     { return len(e.questions) }
func (e *Engine) Score() int     { return e.score }
func (e *Engine) Answered() bool { return e.answered }
func (e *Engine) Phase() Phase   { return e.phase }

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool {
	return e.index+1 >= len(e.questions)
}

// Result returns the final result once the session has finished.
func (e *Engine) Result() (Result, bool) {
	if e.phase != PhaseFinished {
		return Result{}, false
	}
	return e.result(), true
}

func (e *Engine) result() Result {
	return Result{Score: e.score, Total: len(e.questions)}
}

// State is a point-in-time copy of the session, for rendering.
type State struct {
	Index    int
	Total    int
	Score    int
	Selected int // -1 when nothing is selected
	Answered bool
	Phase    Phase
}

// Snapshot copies the current session state.
func (e *Engine) Snapshot() State {
	return State{
		Index:    e.index,
		Total:    len(e.questions),
		Score:    e.score,
		Selected: e.selected,
		Answered: e.answered,
		Phase:    e.phase,
	}
}
