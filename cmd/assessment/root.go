package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/adaptive-assessment/internal/config"
	"github.com/SAP-F-2025/adaptive-assessment/internal/utils"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "assessment",
	Short:         "Adaptive assessment engine",
	Long:          "Serves question banks and results over HTTP and runs assessments in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL DSN (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig reads .env and the environment, then applies persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if dsn, _ := cmd.Flags().GetString("database-url"); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	return cfg, nil
}

// newLogger writes to w, or to a file when path is set. The close func is
// never nil.
func newLogger(cfg *config.Config, w io.Writer, path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return utils.NewWriterLogger(w, cfg.Environment, cfg.LogLevel), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return utils.NewWriterLogger(f, cfg.Environment, cfg.LogLevel), f.Close, nil
}
