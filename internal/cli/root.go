// Package cli implements the ollamatray CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ollamatray",
	Short: "Control and monitor the Ollama systemd service",
	Long: `ollamatray monitors and controls a locally installed Ollama service.
It can query the service state, start or stop it through polkit, list
installed models, and launch a system tray controller.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(trayCmd)
	rootCmd.AddCommand(versionCmd)
}
