// Package main provides the wellchart command line: load treatment files
// from disk, inspect what was parsed, and render charts to PNG.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/wellchart/internal/config"
	"github.com/JonMunkholm/wellchart/internal/core"
	"github.com/JonMunkholm/wellchart/internal/ingest"
	"github.com/JonMunkholm/wellchart/internal/logging"
)

var (
	envFile  string
	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wellchart",
		Short:         "Well treatment time-series viewer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with configuration overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

// newService loads configuration the way the server does and builds a
// service logging to stderr.
func newService() (*core.Service, *config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(os.Stderr, logLevel, cfg.Logging.Format)
	slog.SetDefault(logger)

	opts, err := core.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return core.NewService(opts), cfg, nil
}

// readFiles reads paths from disk into one batch.
func readFiles(paths []string) ([]ingest.RawFile, error) {
	files := make([]ingest.RawFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, ingest.RawFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// loadPaths reads and ingests paths as one batch.
func loadPaths(ctx context.Context, svc *core.Service, paths []string) (*core.LoadReport, error) {
	files, err := readFiles(paths)
	if err != nil {
		return nil, err
	}
	return svc.LoadFiles(ctx, files)
}
