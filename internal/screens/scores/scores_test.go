package scores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/solarquiz/internal/screens/screenstest"
)

func TestScoresScreen_Empty(t *testing.T) {
	svc, _ := screenstest.Services(t)
	s := New(svc)
	assert.Contains(t, s.View(100, 30), "Loading")

	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No quizzes taken yet")
}

func TestScoresScreen_ListsRecords(t *testing.T) {
	svc, _ := screenstest.Services(t)
	ctx := context.Background()
	_, err := svc.Tracker.RecordResult(ctx, "Neptune", 1)
	require.NoError(t, err)
	_, err = svc.Tracker.RecordResult(ctx, "Neptune", 2)
	require.NoError(t, err)
	_, err = svc.Tracker.RecordResult(ctx, "Pluto", 1)
	require.NoError(t, err)

	s := New(svc)
	s.Update(s.Init()())

	view := s.View(100, 30)
	assert.Contains(t, view, "Neptune")
	assert.Contains(t, view, "pluto", "unknown subjects show their key")
	assert.Equal(t, "High Scores", s.Title())
}
