package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hachiman-oct/cbtkit/internal/config"
	"github.com/hachiman-oct/cbtkit/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cbtkit",
	Short: "Offline study tools for the terminal",
	Long: "cbtkit bundles three small study tools: a timed multiple-choice answer sheet\n" +
		"with grading (CBT practice), a text-to-file saver and an audio speed changer.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CBTKIT_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", `Log file path, or "off" (overrides CBTKIT_LOG_FILE env var)`)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CBTKIT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
