package main

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nvandessel/radonsim/internal/dataset"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/store"
)

// synth stores a deterministic building with r rooms, one cellar and hours values.
func synth(t *testing.T, root, name string, r, hours int) {
	t.Helper()
	mustRun(t, "building", "synth", "--root", root,
		"--name", name,
		"--rooms", strconv.Itoa(r),
		"--cellars", "1",
		"--hours", strconv.Itoa(hours))
}

func TestBuildingSynth_Summary(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out := mustRun(t, "building", "synth", "--root", tmpDir, "--name", "fixture", "--rooms", "4", "--hours", "336", "--json")

	var got buildingSummary
	decode(t, out, &got)

	if got.Name != "fixture" {
		t.Errorf("Name = %q, want fixture", got.Name)
	}
	if got.ValueCount != 336 {
		t.Errorf("ValueCount = %d, want 336", got.ValueCount)
	}
	if len(got.Rooms) != 4 || len(got.Cellars) != 1 {
		t.Errorf("rooms/cellars = %v/%v, want 4/1", got.Rooms, got.Cellars)
	}
	total := 0
	for _, l := range pattern.Levels {
		want := pattern.Count(4, 1, l)
		if got.Patterns[l.String()] != want {
			t.Errorf("Patterns[%s] = %d, want %d", l, got.Patterns[l.String()], want)
		}
		total += want
	}
	if got.Total != total {
		t.Errorf("Total = %d, want %d", got.Total, total)
	}
}

func TestBuildingAdd_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	opts := dataset.DefaultSyntheticOptions()
	opts.Name = "house"
	opts.Hours = 200
	f, err := dataset.Synthetic(opts)
	if err != nil {
		t.Fatalf("Synthetic: %v", err)
	}
	path := filepath.Join(tmpDir, "house.yaml")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := mustRun(t, "building", "add", path, "--root", tmpDir)
	if !strings.Contains(out, "Building: house") {
		t.Errorf("add output missing building name:\n%s", out)
	}

	// Same name again is refused unless --replace is given.
	if _, err := runCmd(t, "building", "add", path, "--root", tmpDir); err == nil {
		t.Error("expected error adding duplicate building")
	}
	mustRun(t, "building", "add", path, "--root", tmpDir, "--replace")

	// --name imports the same file under another name.
	mustRun(t, "building", "add", path, "--root", tmpDir, "--name", "copy")

	var list struct {
		Count int `json:"count"`
	}
	decode(t, mustRun(t, "building", "list", "--root", tmpDir, "--json"), &list)
	if list.Count != 2 {
		t.Errorf("building count = %d, want 2", list.Count)
	}
}

func TestBuildingAdd_RejectsOutOfBounds(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	f := &dataset.File{Name: "short"}
	for _, id := range []string{"1", "2", "3", "c1"} {
		f.Rooms = append(f.Rooms, dataset.RoomEntry{ID: id, Values: make([]float64, 100)})
	}
	path := filepath.Join(tmpDir, "short.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := runCmd(t, "building", "add", path, "--root", tmpDir)
	if !errors.Is(err, dataset.ErrBounds) {
		t.Errorf("err = %v, want ErrBounds", err)
	}
}

func TestBuildingShow_Export(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "fixture", 3, 168)

	exportPath := filepath.Join(tmpDir, "export.json")
	mustRun(t, "building", "show", "fixture", "--root", tmpDir, "--export", exportPath)

	f, err := dataset.Load(exportPath)
	if err != nil {
		t.Fatalf("Load export: %v", err)
	}
	if f.Name != "fixture" || len(f.Rooms) != 4 {
		t.Errorf("exported %q with %d rooms, want fixture with 4", f.Name, len(f.Rooms))
	}
	if err := f.Validate(); err != nil {
		t.Errorf("exported file does not validate: %v", err)
	}
}

func TestBuildingShow_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	_, err := runCmd(t, "building", "show", "missing", "--root", tmpDir)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildingRm(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "fixture", 3, 170)
	mustRun(t, "simulate", "fixture", "--root", tmpDir, "--max", "10")

	mustRun(t, "building", "rm", "fixture", "--root", tmpDir)

	out := mustRun(t, "building", "list", "--root", tmpDir)
	if !strings.Contains(out, "No buildings") {
		t.Errorf("list after rm = %q", out)
	}

	var sims struct {
		Count int `json:"count"`
	}
	decode(t, mustRun(t, "simulation", "list", "--root", tmpDir, "--json"), &sims)
	if sims.Count != 0 {
		t.Errorf("simulations after building rm = %d, want 0", sims.Count)
	}

	if _, err := runCmd(t, "building", "rm", "fixture", "--root", tmpDir); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second rm err = %v, want ErrNotFound", err)
	}
}

func TestBuildingList_Table(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	synth(t, tmpDir, "alpha", 3, 168)
	synth(t, tmpDir, "beta", 4, 1008)

	out := mustRun(t, "building", "list", "--root", tmpDir)
	for _, want := range []string{"NAME", "alpha", "beta", "1,008"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}
