package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/solarquiz/internal/narrator"
	"github.com/abhisek/solarquiz/internal/planets"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Narrate a tour of the planets without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		all := planets.Default().All()
		only, _ := cmd.Flags().GetString("planet")
		if only != "" {
			p, ok := planets.Default().Lookup(only)
			if !ok {
				return fmt.Errorf("unknown planet %q", only)
			}
			all = []planets.Planet{p}
		}

		items := make([]string, len(all))
		for i, p := range all {
			items[i] = p.Narration()
		}

		out := cmd.OutOrStdout()
		opts := append(e.narratorOptions(ctx),
			narrator.WithStateHandler(func(s narrator.State) {
				if s.Playing {
					fmt.Fprintf(out, "▸ %s\n", all[s.Index].Name)
				}
			}),
		)
		speaker := e.speaker()
		if text, _ := cmd.Flags().GetBool("text"); text {
			speaker = narrator.NewTextSpeaker(out)
		}
		n := narrator.New(speaker, opts...)

		outcome, err := n.Play(ctx, items, e.cfg.Narration.Gap)
		if err != nil {
			return fmt.Errorf("narrate tour: %w", err)
		}
		if outcome == narrator.OutcomeStopped {
			fmt.Fprintln(out, "Tour stopped.")
			return nil
		}
		fmt.Fprintln(out, "Tour complete.")
		return nil
	},
}

func init() {
	tourCmd.Flags().StringP("planet", "p", "", "Narrate only this planet")
	tourCmd.Flags().Bool("text", false, "Print the narration instead of speaking it")
}
