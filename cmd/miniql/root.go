package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miniql/miniql/internal/logging"
	"github.com/miniql/miniql/pkg/config"
)

// Version is set during build.
var Version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "miniql",
	Short:   "An in-process relational database engine",
	Version: Version,
	Long: `miniql is a small in-process relational database engine: typed
tables with primary/unique/secondary indexes, foreign keys, single-writer
transactions, and a SQL subset covering CREATE/INSERT/SELECT/UPDATE/DELETE,
one JOIN, and grouped aggregation.

Examples:
  miniql run seed.sql --save
  miniql version`,
}

// Execute adds every child command to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (accepted but not read; config.yaml is searched in ., ~/.miniql and /etc/miniql)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return cfg, nil
}
