package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/solarquiz/internal/config"
	"github.com/abhisek/solarquiz/internal/llm"
	"github.com/abhisek/solarquiz/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the log of question-generation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withLocalStore(cmd, func(s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No requests logged yet.")
				return nil
			}

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tTime\tPurpose\tModel\tIn\tOut\tMs\tOK")
			for _, e := range events {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, clip(e.Model, 28),
					e.InputTokens, e.OutputTokens, e.LatencyMs, mark(e.Success))
			}
			return tw.Flush()
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one request and the model's answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		return withLocalStore(cmd, func(s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("no request with ID %d", id)
			}
			printEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

func printEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	tw := table(w)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(tw, "Model:\t%s\n", e.Model)
	fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(tw, "Tokens:\t%d in, %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
	}
	tw.Flush()

	for _, section := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		body := section.body
		if body == "" {
			body = "(empty)"
		}
		fmt.Fprintf(w, "\n── %s %s\n%s\n", section.title, strings.Repeat("─", 50-len(section.title)), body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalStore(cmd, func(s *store.Store) error {
			ctx := cmd.Context()
			byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No requests logged yet.")
				return nil
			}

			tw := table(out)
			fmt.Fprintln(tw, "Purpose\tCalls\tInput\tOutput\tAvg ms")
			for _, u := range byPurpose {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			}
			tw.Flush()

			fmt.Fprintln(out)
			printCosts(out, byModel)
			return nil
		})
	},
}

// printCosts prices usage per model. Models without known pricing are
// listed with "?" and make the total a lower bound.
func printCosts(w io.Writer, usage []store.LLMUsageStats) {
	tw := table(w)
	fmt.Fprintln(tw, "Model\tCalls\tInput\tOutput\tCost (USD)")

	var total float64
	partial := false
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			partial = true
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", clip(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	label := "Total"
	if partial {
		label = "Total (known models)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\n", label, formatCost(total))
	tw.Flush()
}

// withLocalStore opens the SQLite database on its own; the request log
// lives there whatever high-score backend is configured.
func withLocalStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose (e.g. question-gen)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
