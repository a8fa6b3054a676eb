// Package screenstest builds in-memory services for screen tests.
package screenstest

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/narrator"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/screens"
	"github.com/abhisek/solarquiz/internal/store"
)

// Prefs is an in-memory PreferenceStore.
type Prefs struct {
	mu      sync.Mutex
	Value   store.Preferences
	SaveErr error
	Saves   int
}

func (p *Prefs) Load(context.Context) (store.Preferences, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Value, nil
}

func (p *Prefs) Save(_ context.Context, v store.Preferences) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SaveErr != nil {
		return p.SaveErr
	}
	p.Value = v
	p.Saves++
	return nil
}

// Services returns services over the default catalog, a memory backend, a
// silent narrator with an hour-long floor so narrations stay active until
// stopped, and default preferences. The playback controller is closed at
// the end of the test.
func Services(t interface{ Cleanup(func()) }) (*screens.Services, *Prefs) {
	catalog := planets.Default()
	ctrl := playback.NewController(narrator.NewSilentSpeaker(), 0, nil,
		narrator.WithPacing(narrator.Pacing{MinFloor: time.Hour}))
	t.Cleanup(ctrl.Close)

	prefs := &Prefs{Value: store.DefaultPreferences()}
	return &screens.Services{
		Catalog:   catalog,
		Tracker:   highscore.NewTracker(highscore.NewMemoryBackend()),
		Playback:  ctrl,
		Prefs:     prefs,
		Questions: screens.BuiltinQuestions(catalog),
	}, prefs
}
