package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/solarquiz/internal/planets"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and attempts per planet",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.tracker.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list scores: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No quizzes taken yet.")
			return nil
		}

		catalog := planets.Default()
		fmt.Fprintf(out, "%-12s  %6s  %8s  %s\n", "Planet", "Best", "Attempts", "Last played")
		fmt.Fprintln(out, strings.Repeat("─", 50))
		for _, r := range records {
			name := r.Key
			if p, ok := catalog.Lookup(r.Key); ok {
				name = p.Name
			}
			fmt.Fprintf(out, "%-12s  %6d  %8d  %s\n",
				name, r.HighScore, r.Attempts, r.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
