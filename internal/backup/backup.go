// Package backup archives and restores the radonsim store: buildings and
// simulation reports, as gzip-compressed JSONL behind a checksummed header.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nvandessel/radonsim/internal/store"
)

// DefaultBackupDir returns the backup directory inside a data directory.
func DefaultBackupDir(dataDir string) string {
	return filepath.Join(dataDir, "backups")
}

// GenerateBackupPath creates a timestamped backup filename in dir.
func GenerateBackupPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s%s", filePrefix, now.UTC().Format(fileTimeLayout), fileSuffix))
}

const (
	filePrefix     = "radonsim-backup-"
	fileSuffix     = ".jsonl.gz"
	fileTimeLayout = "20060102-150405"
)

// Create exports the whole store into an archive at path.
func Create(ctx context.Context, s store.Store, path string, metadata map[string]string) (*Header, error) {
	var payload bytes.Buffer
	st, err := store.ExportJSONL(ctx, s, &payload)
	if err != nil {
		return nil, fmt.Errorf("exporting store: %w", err)
	}

	h := &Header{
		CreatedAt:   time.Now().UTC(),
		Buildings:   st.Buildings,
		Simulations: st.Simulations,
		Metadata:    metadata,
	}
	if err := writeArchive(path, h, payload.Bytes()); err != nil {
		return nil, err
	}
	return h, nil
}

// RestoreMode controls how restore handles existing data.
type RestoreMode string

const (
	// RestoreMerge skips buildings and simulations that already exist (default).
	RestoreMerge RestoreMode = "merge"
	// RestoreReplace clears the store before restoring.
	RestoreReplace RestoreMode = "replace"
)

// ParseRestoreMode validates a mode name. Empty means merge.
func ParseRestoreMode(s string) (RestoreMode, error) {
	switch RestoreMode(s) {
	case "", RestoreMerge:
		return RestoreMerge, nil
	case RestoreReplace:
		return RestoreReplace, nil
	}
	return "", fmt.Errorf("invalid restore mode %q (want merge or replace)", s)
}

// RestoreResult contains statistics about the restore operation.
type RestoreResult struct {
	BuildingsRestored   int `json:"buildings_restored"`
	BuildingsSkipped    int `json:"buildings_skipped"`
	SimulationsRestored int `json:"simulations_restored"`
	SimulationsSkipped  int `json:"simulations_skipped"`
	BuildingsRemoved    int `json:"buildings_removed,omitempty"`
}

// Restore verifies an archive and loads it into s.
func Restore(ctx context.Context, s store.Store, path string, mode RestoreMode) (*RestoreResult, error) {
	_, payload, err := ReadPayload(path)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}
	if mode == RestoreReplace {
		existing, err := s.ListBuildings(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing buildings: %w", err)
		}
		for _, b := range existing {
			if err := s.DeleteBuilding(ctx, b.Name); err != nil {
				return nil, fmt.Errorf("clearing building %s: %w", b.Name, err)
			}
			result.BuildingsRemoved++
		}

		st, err := store.ImportJSONL(ctx, s, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("importing archive: %w", err)
		}
		result.BuildingsRestored = st.Buildings
		result.SimulationsRestored = st.Simulations
		return result, nil
	}

	if err := merge(ctx, s, payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

func merge(ctx context.Context, s store.Store, payload []byte, result *RestoreResult) error {
	sc := bufio.NewScanner(bytes.NewReader(payload))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e store.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("decoding archive entry: %w", err)
		}

		switch {
		case e.Building != nil:
			_, err := s.GetBuilding(ctx, e.Building.Name)
			if err == nil {
				result.BuildingsSkipped++
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("checking building %s: %w", e.Building.Name, err)
			}
			if err := s.SaveBuilding(ctx, *e.Building); err != nil {
				return fmt.Errorf("restoring building %s: %w", e.Building.Name, err)
			}
			result.BuildingsRestored++

		case e.Simulation != nil:
			_, err := s.GetSimulation(ctx, e.Simulation.ID)
			if err == nil {
				result.SimulationsSkipped++
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("checking simulation %s: %w", e.Simulation.ID, err)
			}
			if err := s.SaveSimulation(ctx, *e.Simulation); err != nil {
				return fmt.Errorf("restoring simulation %s: %w", e.Simulation.ID, err)
			}
			result.SimulationsRestored++
		}
	}
	return sc.Err()
}
