package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nvandessel/radonsim/internal/config"
	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/logging"
	"github.com/nvandessel/radonsim/internal/store"
)

// printer groups thousands in human-readable counts.
var printer = message.NewPrinter(language.English)

// app bundles what a store-backed command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	dataDir string
	store   store.Store
}

// loadConfig reads the configuration and applies the --log-level override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveDataDir returns the data directory selected by --root and --global.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("root")
	scope := constants.ScopeLocal
	if global, _ := cmd.Flags().GetBool("global"); global {
		scope = constants.ScopeGlobal
	}
	return store.DataPath(scope, root)
}

// openApp loads the configuration and opens the configured store.
func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dataDir, err := resolveDataDir(cmd)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Store.Path
	if cfg.Store.Driver != store.DriverMemory && dbPath == "" {
		if err := store.EnsureDataDir(dataDir); err != nil {
			return nil, err
		}
		dbPath = store.DatabasePath(dataDir)
	}

	s, err := store.Open(ctx, cfg.Store.Driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	logger := newLogger(cmd, cfg)
	logger.Debug("store opened", "driver", cfg.Store.Driver, "path", dbPath)

	return &app{cfg: cfg, logger: logger, dataDir: dataDir, store: s}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

func jsonOutput(cmd *cobra.Command) bool {
	jsonOut, _ := cmd.Flags().GetBool("json")
	return jsonOut
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// count formats n with thousands separators.
func count(n int) string {
	return printer.Sprintf("%d", n)
}
