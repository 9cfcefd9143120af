package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "podgen",
		Short: "Podgen API server",
		Long: `Podgen API - turns source material into two-voice audio episodes

Code, files, discussions and project descriptions are rewritten as a
dialogue between two hosts, voiced by a speech provider and stored as
a single audio file.

Features:
  • Script generation via OpenAI chat completions
  • Speech synthesis via ElevenLabs or OpenAI
  • Episode catalog with script and audio retrieval
  • Prometheus metrics for every pipeline run`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultConfigFile, "path to the settings file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newEpisodesCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig initializes configuration for every command that needs it
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationSkipConfig] == "true" || cmd.Name() == "help" {
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	config.SetConfigFile(path)
	if err := config.Init(); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		viper.Set("logging.level", level)
	}
	return nil
}

const annotationSkipConfig = "skip-config"

// repeatString repeats a string n times
func repeatString(s string, n int) string {
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}
