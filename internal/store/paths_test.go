package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/radonsim/internal/constants"
)

func TestGlobalDataPath(t *testing.T) {
	got, err := GlobalDataPath()
	if err != nil {
		t.Fatalf("GlobalDataPath() error = %v", err)
	}
	if !strings.HasSuffix(got, ".radonsim") {
		t.Errorf("GlobalDataPath() = %v, should end with .radonsim", got)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("GlobalDataPath() = %v, should be absolute path", got)
	}
	homeDir, _ := os.UserHomeDir()
	if !strings.HasPrefix(got, homeDir) {
		t.Errorf("GlobalDataPath() = %v, should start with home directory %v", got, homeDir)
	}
}

func TestLocalDataPath(t *testing.T) {
	tests := []struct {
		name string
		root string
		want string
	}{
		{"unix path", "/home/user/project", "/home/user/project/.radonsim"},
		{"relative path", ".", ".radonsim"},
		{"trailing slash", "/srv/data/", "/srv/data/.radonsim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalDataPath(tt.root); got != tt.want {
				t.Errorf("LocalDataPath(%q) = %v, want %v", tt.root, got, tt.want)
			}
		})
	}
}

func TestDataPath(t *testing.T) {
	local, err := DataPath(constants.ScopeLocal, "/p")
	if err != nil || local != "/p/.radonsim" {
		t.Errorf("DataPath(local) = %v, %v", local, err)
	}
	global, err := DataPath(constants.ScopeGlobal, "/p")
	if err != nil || !strings.HasSuffix(global, ".radonsim") {
		t.Errorf("DataPath(global) = %v, %v", global, err)
	}
	if _, err := DataPath(constants.Scope("both"), "/p"); err == nil {
		t.Error("DataPath(both) should fail")
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".radonsim")
	if err := EnsureDataDir(dir); err != nil {
		t.Fatalf("EnsureDataDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
	if err := EnsureDataDir(dir); err != nil {
		t.Errorf("EnsureDataDir() on existing dir error = %v", err)
	}
}
