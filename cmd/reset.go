package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear high scores, settings and generated questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "This deletes all high scores, settings and generated questions. Continue? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing was deleted.")
				return nil
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.tracker.Reset(ctx); err != nil {
			return fmt.Errorf("clear high scores: %w", err)
		}
		if err := e.store.Preferences().Clear(ctx); err != nil {
			return fmt.Errorf("clear preferences: %w", err)
		}
		keepBank, _ := cmd.Flags().GetBool("keep-questions")
		if !keepBank {
			if err := e.store.Bank().Clear(ctx); err != nil {
				return fmt.Errorf("clear question bank: %w", err)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().Bool("keep-questions", false, "Keep generated questions")
}
