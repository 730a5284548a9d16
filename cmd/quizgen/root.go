package main

import (
	"github.com/spf13/cobra"

	"quiz-ai/internal/config"
	"quiz-ai/internal/logger"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate quizzes from the command line",
	Long: `quizgen drives the same generation pipeline as the API server.

Example usage:
  quizgen generate --topic "Go channels" --difficulty 3 --count 5
  quizgen generate --topic "SQL joins" --save`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func initConfig() error {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	return logger.Initialize(cfg.Logger)
}
