package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/solarquiz/internal/app"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/playback"
	"github.com/abhisek/solarquiz/internal/screens"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the planet explorer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the environment, builds the screen services and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	catalog := planets.Default()
	ctrl := playback.NewController(e.speaker(), e.cfg.Narration.Gap, e.log, e.narratorOptions(ctx)...)

	questions := screens.BuiltinQuestions(catalog)
	if e.cfg.Quiz.IncludeGenerated {
		questions = screens.WithBank(questions, e.store.Bank(), e.log)
	}

	return app.Run(&screens.Services{
		Catalog:   catalog,
		Tracker:   e.tracker,
		Playback:  ctrl,
		Prefs:     e.store.Preferences(),
		Questions: questions,
		Log:       e.log,
	})
}
