package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/solarquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "solarquiz",
	Short: "Explore the planets and test what you learned",
	Long:  "Solar Quiz: a terminal tour of the solar system with narrated planet facts and a quiz for every planet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tourCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// addGlobalFlags registers the flags every subcommand inherits.
func addGlobalFlags(c *cobra.Command) {
	c.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SOLARQUIZ_DB env var)")
	c.PersistentFlags().String("log-file", "", `Log file path, "-" for stderr`)
	c.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	c.PersistentFlags().Bool("memory", false, "Keep everything in memory; nothing is saved")
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key, then SOLARQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
