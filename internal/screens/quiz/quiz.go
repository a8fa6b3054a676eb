package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/quiz"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screen"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/screens/result"
	"github.com/abhisek/solarquiz/internal/ui/components"
	"github.com/abhisek/solarquiz/internal/ui/keys"
	"github.com/abhisek/solarquiz/internal/ui/layout"
	"github.com/abhisek/solarquiz/internal/ui/theme"
)

// questionsLoadedMsg delivers the quiz's questions.
type questionsLoadedMsg struct {
	questions []quiz.Question
	err       error
}

// QuizScreen plays one quiz for a planet.
type QuizScreen struct {
	svc    *screens.Services
	planet planets.Planet
	id     string // correlates log lines for one attempt

	engine  *quiz.Engine
	loadErr error
	cursor  int
}

var _ screen.Screen = (*QuizScreen)(nil)

// New creates a quiz screen for p. Questions load in Init.
func New(svc *screens.Services, p planets.Planet) *QuizScreen {
	return &QuizScreen{svc: svc, planet: p, id: uuid.NewString()}
}

func (s *QuizScreen) Init() tea.Cmd {
	source, subject := s.svc.Questions, s.planet.Name
	return func() tea.Msg {
		qs, err := source(context.Background(), subject)
		return questionsLoadedMsg{questions: qs, err: err}
	}
}

func (s *QuizScreen) start(qs []quiz.Question) {
	log := s.svc.Logger().With(zap.String("quiz", s.id), zap.String("planet", s.planet.Name))
	engine, err := quiz.Start(qs, quiz.WithFinishHandler(func(r quiz.Result) {
		log.Info("quiz finished", zap.Int("score", r.Score), zap.Int("total", r.Total))
	}))
	if err != nil {
		log.Warn("quiz rejected", zap.Error(err))
		s.loadErr = err
		return
	}
	log.Debug("quiz started", zap.Int("questions", engine.Total()))
	s.engine = engine
	s.cursor = 0
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		if msg.err != nil {
			s.svc.Logger().Warn("load questions", zap.String("planet", s.planet.Name), zap.Error(msg.err))
			s.loadErr = msg.err
			return s, nil
		}
		s.start(msg.questions)
		return s, nil

	case tea.KeyPressMsg:
		if s.engine == nil {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	e := s.engine
	q, ok := e.Current()
	if !ok {
		return s, nil
	}

	if i := keys.Digit(msg.String()); i >= 0 {
		if e.Select(i) {
			s.cursor = i
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if !e.Answered() {
			if _, selected := e.Selected(); selected && s.cursor > 0 {
				s.cursor--
			}
			e.Select(s.cursor)
		}
	case key.Matches(msg, keys.Down):
		if !e.Answered() {
			if _, selected := e.Selected(); selected && s.cursor < len(q.Options)-1 {
				s.cursor++
			}
			e.Select(s.cursor)
		}
	case key.Matches(msg, keys.Reset):
		e.ResetSelection()
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Space):
		if !e.Answered() {
			e.Submit()
			return s, nil
		}
		res, done := e.AdvanceOrFinish()
		if done {
			return s, router.Replace(result.New(s.svc, s.planet, res))
		}
		s.cursor = 0
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch {
	case s.loadErr != nil:
		body = s.messageView("This quiz could not be loaded.", errorText(s.loadErr))
	case s.engine == nil:
		body = theme.Hint.Render("Loading questions…")
	case s.engine.Phase() == quiz.PhaseEmpty:
		body = s.messageView(
			fmt.Sprintf("No quiz available for %s yet.", s.planet.Name),
			"Try another planet, or generate questions with `solarquiz generate`.",
		)
	default:
		body = s.questionView(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *QuizScreen) messageView(headline, detail string) string {
	return theme.Card.Render(
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(headline) +
			"\n\n" + theme.Hint.Render(detail),
	)
}

func errorText(err error) string {
	var verr *quiz.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Question %d is malformed: %s.", verr.Position+1, verr.Reason)
	}
	return err.Error()
}

func (s *QuizScreen) questionView(width int) string {
	st := s.engine.Snapshot()
	q, _ := s.engine.Current()

	barWidth := max(min(width-16, 60), 20)
	progress := components.LabeledMeter(
		fmt.Sprintf("Question %d of %d", st.Index+1, st.Total),
		float64(st.Index)/float64(st.Total),
		barWidth,
	)

	card := components.MultiChoice{
		Question: q.Prompt,
		Options:  q.Options,
		Cursor:   s.cursor,
		Selected: st.Selected,
		Answered: st.Answered,
		Correct:  q.CorrectOption,
	}

	var b strings.Builder
	b.WriteString(progress)
	b.WriteString("\n\n")
	b.WriteString(card.View())
	b.WriteString("\n")
	b.WriteString(s.feedback(st, q))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Score: %d", st.Score)))
	return theme.Card.Width(barWidth + 6).Render(b.String())
}

func (s *QuizScreen) feedback(st quiz.State, q quiz.Question) string {
	if !st.Answered {
		if st.Selected < 0 {
			return theme.Hint.Render("Pick an answer, then press Enter.")
		}
		return theme.Hint.Render("Press Enter to lock it in.")
	}
	next := "Press Enter for the next question."
	if s.engine.IsLast() {
		next = "Press Enter to see your result."
	}
	switch {
	case st.Selected == q.CorrectOption:
		return theme.Correct.Render("Correct!") + "  " + theme.Hint.Render(next)
	case st.Selected < 0:
		return theme.Incorrect.Render("No answer chosen. The answer was "+q.Options[q.CorrectOption]+".") +
			"\n" + theme.Hint.Render(next)
	default:
		return theme.Incorrect.Render("Not quite. The answer was "+q.Options[q.CorrectOption]+".") +
			"\n" + theme.Hint.Render(next)
	}
}

func (s *QuizScreen) Title() string {
	return s.planet.Name + " Quiz"
}

// KeyHints returns the footer hints.
func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.engine != nil && s.engine.Answered() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "r", Description: "Clear"},
		{Key: "Esc", Description: "Leave quiz"},
	}
}
