package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/config"
	"github.com/nateprice/draftlog/internal/logging"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// log is the process logger, built from the configured level.
var log zerolog.Logger

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "draftlog",
	Short: "Record, replay, and analyze the keystroke-level writing process of a text file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			if config.IsParseError(err) {
				return err
			}
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		log = logging.New(level)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}
