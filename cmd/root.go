package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "AI career coach",
	Long: "CareerPilot: mock interviews, learning roadmaps with XP and streaks, " +
		"and resume gap analysis, from the terminal or over HTTP.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config (overrides CAREERPILOT_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite path (overrides CAREERPILOT_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "local", "User ID for CLI commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(mentorCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func userFlag(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	return u
}
