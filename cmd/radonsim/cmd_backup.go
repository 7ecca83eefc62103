package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/backup"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive and restore the building and simulation store",
		Long: `Archive the complete store (buildings and simulation results) to a
compressed, checksummed file and restore it later.

Default location: <data dir>/backups/radonsim-backup-YYYYMMDD-HHMMSS.jsonl.gz
Backups are pruned according to the retention policy after each create
(default: keep the last 10).

Examples:
  radonsim backup create                          # Backup to default location
  radonsim backup create --output my.jsonl.gz     # Backup to a specific file
  radonsim backup list                            # List all backups
  radonsim backup verify <file>                   # Verify backup integrity
  radonsim backup restore <file> --mode replace   # Restore, clearing the store
  radonsim backup prune --keep 3                  # Apply a retention policy`,
	}

	cmd.AddCommand(
		newBackupCreateCmd(),
		newBackupListCmd(),
		newBackupVerifyCmd(),
		newBackupRestoreCmd(),
		newBackupPruneCmd(),
	)

	return cmd
}

// backupDir returns the configured backup directory or the default one
// inside the data directory.
func backupDir(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if cfg.Backup.Dir != "" {
		return cfg.Backup.Dir, nil
	}
	dataDir, err := resolveDataDir(cmd)
	if err != nil {
		return "", err
	}
	return backup.DefaultBackupDir(dataDir), nil
}

func newBackupCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Export the store to a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			outputPath, _ := cmd.Flags().GetString("output")

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dir, err := backupDir(cmd)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = backup.GenerateBackupPath(dir, time.Now())
			}

			header, err := backup.Create(ctx, a.store, outputPath, map[string]string{
				"radonsim_version": version,
			})
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			// Retention only manages the directory the archive landed in.
			var pruned []string
			policy, err := backup.NewPolicy(a.cfg.Backup.KeepCount, a.cfg.Backup.MaxAge)
			if err != nil {
				return err
			}
			if pruned, err = backup.ApplyRetention(filepath.Dir(outputPath), policy); err != nil {
				a.logger.Warn("failed to apply retention", "dir", filepath.Dir(outputPath), "error", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"path":        outputPath,
					"buildings":   header.Buildings,
					"simulations": header.Simulations,
					"checksum":    header.Checksum,
					"pruned":      pruned,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup created: %d buildings, %d simulations\n", header.Buildings, header.Simulations)
			fmt.Fprintf(out, "  Path: %s\n", outputPath)
			if len(pruned) > 0 {
				fmt.Fprintf(out, "  Pruned %d old backup(s)\n", len(pruned))
			}
			return nil
		},
	}

	cmd.Flags().String("output", "", "Output file path (default: auto-generated in the backup directory)")

	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups with metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := backupDir(cmd)
			if err != nil {
				return err
			}
			backups, err := backup.ListBackups(dir)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			if jsonOutput(cmd) {
				if backups == nil {
					backups = []backup.Info{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"backups":     backups,
					"total_count": len(backups),
					"directory":   dir,
				})
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintf(out, "No backups found in %s\n", dir)
				return nil
			}

			fmt.Fprintf(out, "Backups in %s:\n", dir)
			var totalSize int64
			for _, b := range backups {
				totalSize += b.Size
				status := fmt.Sprintf("%d buildings, %d simulations", b.Buildings, b.Simulations)
				if !b.Valid {
					status = "unreadable header"
				}
				fmt.Fprintf(out, "  %s  %8s  %-14s  %s\n",
					filepath.Base(b.Path), humanize.Bytes(uint64(b.Size)), humanize.Time(b.CreatedAt), status)
			}
			fmt.Fprintf(out, "\nTotal: %d backups, %s\n", len(backups), humanize.Bytes(uint64(totalSize)))
			return nil
		},
	}
}

func newBackupVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify the checksum of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			header, err := backup.ReadHeader(path)
			if err != nil {
				return fmt.Errorf("failed to read backup header: %w", err)
			}
			verifyErr := backup.VerifyChecksum(path)

			if jsonOutput(cmd) {
				result := map[string]any{
					"path":        path,
					"valid":       verifyErr == nil,
					"version":     header.Version,
					"created_at":  header.CreatedAt,
					"buildings":   header.Buildings,
					"simulations": header.Simulations,
					"checksum":    header.Checksum,
				}
				if verifyErr != nil {
					result["error"] = verifyErr.Error()
				}
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				return verifyErr
			}

			if verifyErr != nil {
				return fmt.Errorf("backup %s is corrupt: %w", path, verifyErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup OK: %s (%d buildings, %d simulations, created %s)\n",
				path, header.Buildings, header.Simulations, header.CreatedAt.Local().Format(time.DateTime))
			return nil
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the store from a backup file",
		Long: `Restore buildings and simulations from a backup file.

Modes:
  merge   - Skip existing buildings and simulations (default)
  replace - Clear the store first, then restore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			modeFlag, _ := cmd.Flags().GetString("mode")

			mode, err := backup.ParseRestoreMode(modeFlag)
			if err != nil {
				return err
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := backup.Restore(ctx, a.store, args[0], mode)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			a.logger.Info("backup restored", "path", args[0], "mode", mode)

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restored %d buildings (%d skipped), %d simulations (%d skipped)\n",
				result.BuildingsRestored, result.BuildingsSkipped, result.SimulationsRestored, result.SimulationsSkipped)
			if result.BuildingsRemoved > 0 {
				fmt.Fprintf(out, "  Removed %d existing buildings before restoring\n", result.BuildingsRemoved)
			}
			return nil
		},
	}

	cmd.Flags().String("mode", string(backup.RestoreMerge), "Restore mode: merge or replace")

	return cmd
}

func newBackupPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete backups outside the retention policy",
		Long: `Delete backups that no retention rule keeps. Without flags the configured
policy (backup.keep_count, backup.max_age) applies. A backup survives when
any rule keeps it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := backupDir(cmd)
			if err != nil {
				return err
			}

			keep := cfg.Backup.KeepCount
			if cmd.Flags().Changed("keep") {
				keep, _ = cmd.Flags().GetInt("keep")
			}
			maxAge := cfg.Backup.MaxAge
			if cmd.Flags().Changed("max-age") {
				maxAge, _ = cmd.Flags().GetString("max-age")
			}
			maxSize, _ := cmd.Flags().GetString("max-size")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			policy, err := backup.NewPolicy(keep, maxAge)
			if err != nil {
				return err
			}
			if maxSize != "" {
				n, err := backup.ParseSize(maxSize)
				if err != nil {
					return err
				}
				policy = backup.AnyPolicy{policy, backup.SizePolicy{MaxTotalBytes: n}}
			}

			var removed []string
			if dryRun {
				removed, err = prunable(dir, policy)
			} else {
				removed, err = backup.ApplyRetention(dir, policy)
			}
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				if removed == nil {
					removed = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"directory": dir,
					"removed":   removed,
					"dry_run":   dryRun,
				})
			}
			out := cmd.OutOrStdout()
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			for _, p := range removed {
				fmt.Fprintf(out, "  %s\n", filepath.Base(p))
			}
			fmt.Fprintf(out, "%s %d backup(s) from %s\n", verb, len(removed), dir)
			return nil
		},
	}

	cmd.Flags().Int("keep", 0, "Keep the N most recent backups (default from config)")
	cmd.Flags().String("max-age", "", "Keep backups younger than this, e.g. 30d or 2w (default from config)")
	cmd.Flags().String("max-size", "", "Keep the newest backups within this total size, e.g. 500MB")
	cmd.Flags().Bool("dry-run", false, "List what would be removed without deleting")

	return cmd
}

// prunable returns the backups in dir that policy would delete.
func prunable(dir string, policy backup.RetentionPolicy) ([]string, error) {
	backups, err := backup.ListBackups(dir)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool)
	for _, b := range policy.Apply(backups) {
		keep[b.Path] = true
	}
	var out []string
	for _, b := range backups {
		if !keep[b.Path] {
			out = append(out, b.Path)
		}
	}
	return out, nil
}
