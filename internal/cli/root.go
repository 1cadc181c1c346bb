package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hearthside",
	Short: "Relationship simulation engine for narrative games",
	Long:  "Hearthside simulates characters with emotions, moods, memories, and a relationship arc. Single Go binary, state in SQLite.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(charactersCmd)
	rootCmd.AddCommand(dialogueCmd)
	rootCmd.AddCommand(decayCmd)
}
