package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/quiz"
	"github.com/abhisek/solarquiz/internal/router"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/screens/result"
	"github.com/abhisek/solarquiz/internal/screens/screenstest"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func mars(t *testing.T, svc *screens.Services) planets.Planet {
	t.Helper()
	p, ok := svc.Catalog.Lookup("mars")
	require.True(t, ok)
	return p
}

// loaded returns a quiz screen with its questions delivered.
func loaded(t *testing.T, svc *screens.Services, p planets.Planet) *QuizScreen {
	t.Helper()
	s := New(svc, p)
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

func TestQuizScreen_PlayThroughToResult(t *testing.T) {
	svc, _ := screenstest.Services(t)
	s := loaded(t, svc, mars(t, svc))
	require.NotNil(t, s.engine)
	assert.Equal(t, 2, s.engine.Total())

	s.Update(keyPress('2'))
	sel, ok := s.engine.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, sel)

	s.Update(specialKey(tea.KeyEnter))
	assert.True(t, s.engine.Answered())
	assert.Equal(t, 1, s.engine.Score())
	assert.Contains(t, s.View(100, 30), "Correct!")

	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, 1, s.engine.Index())
	assert.False(t, s.engine.Answered())

	// Wrong answer on the last question.
	s.Update(keyPress('1'))
	s.Update(specialKey(tea.KeyEnter))
	assert.Contains(t, s.View(100, 30), "Not quite")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "finishing should replace the quiz with the result")
	assert.IsType(t, &result.ResultScreen{}, msg.Screen)
	assert.Equal(t, quiz.PhaseFinished, s.engine.Phase())
}

func TestQuizScreen_ArrowsAndReset(t *testing.T) {
	svc, _ := screenstest.Services(t)
	s := loaded(t, svc, mars(t, svc))

	s.Update(specialKey(tea.KeyDown))
	sel, _ := s.engine.Selected()
	assert.Equal(t, 0, sel, "first Down selects the highlighted option")

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	sel, _ = s.engine.Selected()
	assert.Equal(t, 2, sel)

	s.Update(specialKey(tea.KeyUp))
	sel, _ = s.engine.Selected()
	assert.Equal(t, 1, sel)

	s.Update(keyPress('r'))
	_, ok := s.engine.Selected()
	assert.False(t, ok)

	// Out-of-range digits are ignored.
	s.Update(keyPress('9'))
	_, ok = s.engine.Selected()
	assert.False(t, ok)
}

func TestQuizScreen_SubmitWithoutSelection(t *testing.T) {
	svc, _ := screenstest.Services(t)
	s := loaded(t, svc, mars(t, svc))

	s.Update(specialKey(tea.KeyEnter))
	assert.True(t, s.engine.Answered())
	assert.Equal(t, 0, s.engine.Score())
	assert.Contains(t, s.View(100, 30), "No answer chosen")

	// Selection is locked once answered.
	s.Update(keyPress('2'))
	_, ok := s.engine.Selected()
	assert.False(t, ok)
}

func TestQuizScreen_NoQuestions(t *testing.T) {
	svc, _ := screenstest.Services(t)
	svc.Questions = func(context.Context, string) ([]quiz.Question, error) { return nil, nil }
	s := loaded(t, svc, mars(t, svc))

	assert.Equal(t, quiz.PhaseEmpty, s.engine.Phase())
	assert.Contains(t, s.View(100, 30), "No quiz available for Mars")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
}

func TestQuizScreen_MalformedQuestion(t *testing.T) {
	svc, _ := screenstest.Services(t)
	svc.Questions = func(context.Context, string) ([]quiz.Question, error) {
		return []quiz.Question{{Prompt: "Broken", Options: []string{"only"}}}, nil
	}
	s := loaded(t, svc, mars(t, svc))

	assert.Nil(t, s.engine)
	view := s.View(100, 30)
	assert.Contains(t, view, "could not be loaded")
	assert.Contains(t, view, "Question 1 is malformed")
}

func TestQuizScreen_SourceError(t *testing.T) {
	svc, _ := screenstest.Services(t)
	svc.Questions = func(context.Context, string) ([]quiz.Question, error) {
		return nil, errors.New("bank offline")
	}
	s := loaded(t, svc, mars(t, svc))
	assert.True(t, strings.Contains(s.View(100, 30), "bank offline"))
}

func TestQuizScreen_Title(t *testing.T) {
	svc, _ := screenstest.Services(t)
	assert.Equal(t, "Mars Quiz", New(svc, mars(t, svc)).Title())
}
