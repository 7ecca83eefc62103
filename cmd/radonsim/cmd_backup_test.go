package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/radonsim/internal/backup"
)

func TestBackup_CreateListVerifyRestore(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "fixture", 3, 200)
	mustRun(t, "simulate", "fixture", "--root", tmpDir, "--max", "20")

	var created struct {
		Path        string `json:"path"`
		Buildings   int    `json:"buildings"`
		Simulations int    `json:"simulations"`
	}
	decode(t, mustRun(t, "backup", "create", "--root", tmpDir, "--json"), &created)
	if created.Buildings != 1 || created.Simulations != 1 {
		t.Errorf("created = %+v, want 1 building and 1 simulation", created)
	}
	wantDir := filepath.Join(tmpDir, ".radonsim", "backups")
	if filepath.Dir(created.Path) != wantDir {
		t.Errorf("backup path %s not in %s", created.Path, wantDir)
	}

	var list struct {
		Backups []backup.Info `json:"backups"`
		Total   int           `json:"total_count"`
	}
	decode(t, mustRun(t, "backup", "list", "--root", tmpDir, "--json"), &list)
	if list.Total != 1 || !list.Backups[0].Valid {
		t.Errorf("list = %+v, want one valid backup", list)
	}

	out := mustRun(t, "backup", "verify", created.Path)
	if !strings.HasPrefix(out, "Backup OK") {
		t.Errorf("verify output = %q", out)
	}

	mustRun(t, "building", "rm", "fixture", "--root", tmpDir)

	var result backup.RestoreResult
	decode(t, mustRun(t, "backup", "restore", created.Path, "--root", tmpDir, "--json"), &result)
	if result.BuildingsRestored != 1 || result.SimulationsRestored != 1 {
		t.Errorf("restore = %+v, want 1 building and 1 simulation", result)
	}

	// Merging again skips everything.
	decode(t, mustRun(t, "backup", "restore", created.Path, "--root", tmpDir, "--json"), &result)
	if result.BuildingsSkipped != 1 || result.SimulationsSkipped != 1 {
		t.Errorf("second restore = %+v, want everything skipped", result)
	}

	decode(t, mustRun(t, "backup", "restore", created.Path, "--root", tmpDir, "--mode", "replace", "--json"), &result)
	if result.BuildingsRemoved != 1 || result.BuildingsRestored != 1 {
		t.Errorf("replace restore = %+v", result)
	}
}

func TestBackup_VerifyDetectsCorruption(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "fixture", 3, 168)

	path := filepath.Join(tmpDir, "out.jsonl.gz")
	mustRun(t, "backup", "create", "--root", tmpDir, "--output", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCmd(t, "backup", "verify", path); err == nil {
		t.Error("expected verify to fail on corrupted archive")
	}
	if _, err := runCmd(t, "backup", "restore", path, "--root", tmpDir); err == nil {
		t.Error("expected restore to fail on corrupted archive")
	}
}

func TestBackup_RestoreRejectsBadMode(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	if _, err := runCmd(t, "backup", "restore", "x.jsonl.gz", "--root", tmpDir, "--mode", "overwrite"); err == nil {
		t.Error("expected error for unknown restore mode")
	}
}

func TestBackup_Prune(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "fixture", 3, 168)

	dir := filepath.Join(tmpDir, ".radonsim", "backups")
	older := filepath.Join(dir, "radonsim-backup-20250101-000000.jsonl.gz")
	newer := filepath.Join(dir, "radonsim-backup-20250102-000000.jsonl.gz")
	mustRun(t, "backup", "create", "--root", tmpDir, "--output", older)
	mustRun(t, "backup", "create", "--root", tmpDir, "--output", newer)

	var result struct {
		Removed []string `json:"removed"`
		DryRun  bool     `json:"dry_run"`
	}
	decode(t, mustRun(t, "backup", "prune", "--root", tmpDir, "--keep", "1", "--dry-run", "--json"), &result)
	if !result.DryRun || len(result.Removed) != 1 || result.Removed[0] != older {
		t.Errorf("dry run = %+v, want %s", result, older)
	}
	if _, err := os.Stat(older); err != nil {
		t.Errorf("dry run removed %s: %v", older, err)
	}

	decode(t, mustRun(t, "backup", "prune", "--root", tmpDir, "--keep", "1", "--json"), &result)
	if len(result.Removed) != 1 {
		t.Errorf("removed = %v, want one backup", result.Removed)
	}
	if _, err := os.Stat(older); !os.IsNotExist(err) {
		t.Errorf("%s still exists after prune", older)
	}
	if _, err := os.Stat(newer); err != nil {
		t.Errorf("%s removed by prune: %v", newer, err)
	}
}

func TestBackup_ListEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out := mustRun(t, "backup", "list", "--root", tmpDir)
	if !strings.Contains(out, "No backups found") {
		t.Errorf("list output = %q", out)
	}
}
