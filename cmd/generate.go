package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/llm"
	"github.com/abhisek/solarquiz/internal/planets"
	"github.com/abhisek/solarquiz/internal/questiongen"
	"github.com/abhisek/solarquiz/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate extra quiz questions with an LLM",
	Long: `Generate asks the configured LLM provider for new questions about a planet
and saves them to the question bank. Banked questions are added to the
planet's quiz when quiz.include_generated is on.

Set SOLARQUIZ_LLM_PROVIDER and the matching SOLARQUIZ_*_API_KEY, or one of
ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("planet")
		count, _ := cmd.Flags().GetInt("count")

		catalog := planets.Default()
		targets := catalog.All()
		if name != "" {
			p, ok := catalog.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown planet %q", name)
			}
			targets = []planets.Planet{p}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo(), e.log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		gen := questiongen.New(provider, questiongen.DefaultConfig(), e.log)
		bank := e.store.Bank()
		out := cmd.OutOrStdout()

		var failed int
		for _, p := range targets {
			existing := promptsOf(catalog.Quiz(p.Name))
			banked, err := bank.List(ctx, p.Name)
			if err != nil {
				return fmt.Errorf("read question bank: %w", err)
			}
			existing = append(existing, promptsOf(banked)...)

			qs, err := gen.Generate(ctx, p, count, existing)
			if err != nil {
				failed++
				e.log.Warn("generate questions", zap.String("planet", p.Name), zap.Error(err))
				fmt.Fprintf(out, "%-8s  failed: %v\n", p.Name, err)
				continue
			}
			added, err := bank.Add(ctx, p.Name, provider.ModelID(), qs)
			if err != nil {
				return fmt.Errorf("save questions for %s: %w", p.Name, err)
			}
			fmt.Fprintf(out, "%-8s  %d new question(s)\n", p.Name, added)
		}

		if failed == len(targets) {
			return fmt.Errorf("no questions generated")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("planet", "p", "", "Planet to generate for (default: all)")
	generateCmd.Flags().IntP("count", "n", 3, "Questions to request per planet")
}

func promptsOf(qs []quiz.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Prompt
	}
	return out
}
