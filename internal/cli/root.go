// Package cli implements the chatlog command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tOgg1/chatlog/internal/config"
	"github.com/tOgg1/chatlog/internal/logging"
)

var (
	cfgFile   string
	dbPath    string
	logLevel  string
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chatlog",
	Short: "Extract and render iMessage conversations",
	Long: `chatlog reads Apple's iMessage store (chat.db) and renders
conversations as colorized text or browsable HTML, with contact name
resolution, reply threads and attachment handling.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/chatlog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to chat.db (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")
}

func initialize(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		// First run gets a commented config file to edit later.
		if _, ensureErr := config.EnsureDefault(); ensureErr != nil {
			logging.Debug().Err(ensureErr).Msg("could not create default config file")
		}
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	return nil
}
