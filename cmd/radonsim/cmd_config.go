package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage radonsim configuration",
		Long: `View and modify radonsim configuration settings.

Configuration is stored in ~/.radonsim/config.yaml. RADONSIM_* environment
variables override the file (e.g. RADONSIM_SIMULATION_WORKERS=4).

Examples:
  radonsim config list                          # Show all settings
  radonsim config get simulation.max            # Get a specific setting
  radonsim config set simulation.workers 4      # Set a setting
  radonsim config set backup.max_age 30d`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration (~/.radonsim/config.yaml):")
			fmt.Fprintln(out)
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				fmt.Fprintf(out, "  %-26s %s\n", key+":", valueOrDefault(fmt.Sprint(value), "(not set)"))
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			value, found := cfg.Get(key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			path, err := config.Path()
			if err != nil {
				return err
			}
			// Environment overrides are not written back.
			cfg, err := loadConfigFile(path)
			if err != nil {
				return err
			}

			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func loadConfigFile(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
