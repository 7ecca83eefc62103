package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/config"
	"github.com/nvandessel/radonsim/internal/store"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the radonsim data directory",
		Long: `Create the .radonsim data directory and its database.

With --global the directory is created under the home directory instead of
the project root. A default ~/.radonsim/config.yaml is written when none
exists yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			dataDir, err := resolveDataDir(cmd)
			if err != nil {
				return err
			}
			if err := store.EnsureDataDir(dataDir); err != nil {
				return err
			}

			dbPath := store.DatabasePath(dataDir)
			s, err := store.NewSQLiteStore(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := s.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}

			configPath, err := config.Path()
			if err != nil {
				return err
			}
			configCreated := false
			if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
				if err := config.Save(config.Default(), configPath); err != nil {
					return err
				}
				configCreated = true
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"status":         "initialized",
					"path":           dataDir,
					"database":       dbPath,
					"config":         configPath,
					"config_created": configCreated,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized %s\n", dataDir)
			if configCreated {
				fmt.Fprintf(out, "Wrote default config to %s\n", configPath)
			}
			return nil
		},
	}
}
