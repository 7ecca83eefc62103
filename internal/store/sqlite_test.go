package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), DatabasePath(LocalDataPath(t.TempDir())))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store { return newTestSQLiteStore(t) })
}

func TestNewSQLiteStore_CreatesDatabase(t *testing.T) {
	root := t.TempDir()
	path := DatabasePath(LocalDataPath(root))

	s, err := NewSQLiteStore(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(root, ".radonsim", "radonsim.db")); os.IsNotExist(err) {
		t.Error("radonsim.db was not created")
	}
	if s.Path() != path {
		t.Errorf("Path() = %s, want %s", s.Path(), path)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := DatabasePath(t.TempDir())

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBuilding(ctx, testBuilding("house", 200)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSimulation(ctx, testSimulation("s1", "house", time.Now())); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	b, err := reopened.GetBuilding(ctx, "house")
	if err != nil {
		t.Fatalf("GetBuilding() after reopen error = %v", err)
	}
	if b.ValueCount() != 200 {
		t.Errorf("ValueCount() = %d, want 200", b.ValueCount())
	}
	if _, err := reopened.GetSimulation(ctx, "s1"); err != nil {
		t.Errorf("GetSimulation() after reopen error = %v", err)
	}
}
