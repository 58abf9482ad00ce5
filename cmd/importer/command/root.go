package command

// root.go defines the root command of the importer and its global flags.

import (
	"fmt"
	"log/slog"
	"os"

	"reviewhub/internal/config"
	"reviewhub/internal/logging"

	"github.com/spf13/cobra"
)

var (
	logLevel  string // overrides LOG_LEVEL
	logFormat string // overrides LOG_FORMAT
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "importer - load CSV seed data into the reviewhub database",
	Long: `importer reads the seed CSV files (category, genre, users, titles, review,
comments, genre_title) and writes them to the database in one transaction.
A single bad row aborts the run and nothing is committed.

Use "importer command --help" to see the flags of a command.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

// loadConfig reads the environment and applies the flag overrides. The
// importer only needs the database settings, so Validate is not called.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}
