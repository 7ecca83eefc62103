package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/radonsim/internal/constants"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Simulation.Max != constants.DefaultRandomCampaigns {
		t.Errorf("expected Simulation.Max %d, got %d", constants.DefaultRandomCampaigns, cfg.Simulation.Max)
	}
	if cfg.Simulation.Workers != 1 {
		t.Errorf("expected Simulation.Workers 1, got %d", cfg.Simulation.Workers)
	}
	if cfg.Simulation.KeepCampaigns {
		t.Error("expected KeepCampaigns to be false by default")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected Store.Driver 'sqlite', got '%s'", cfg.Store.Driver)
	}
	if cfg.Backup.KeepCount != 10 {
		t.Errorf("expected Backup.KeepCount 10, got %d", cfg.Backup.KeepCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: debug
simulation:
  max: 2500
  seed: 17
  workers: 4
store:
  path: ${RADONSIM_TEST_DIR}/db.sqlite
backup:
  keep_count: 3
  max_age: 30d
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("RADONSIM_TEST_DIR", "/srv/radon")

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Simulation.Max != 2500 || cfg.Simulation.Seed != 17 || cfg.Simulation.Workers != 4 {
		t.Errorf("unexpected simulation config: %+v", cfg.Simulation)
	}
	if cfg.Store.Path != "/srv/radon/db.sqlite" {
		t.Errorf("expected expanded store path, got '%s'", cfg.Store.Path)
	}
	// Missing from the file: default survives
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected default driver, got '%s'", cfg.Store.Driver)
	}
	if cfg.Backup.KeepCount != 3 || cfg.Backup.MaxAge != "30d" {
		t.Errorf("unexpected backup config: %+v", cfg.Backup)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("simulation: [1, 2"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RADONSIM_LOG_LEVEL", "trace")
	t.Setenv("RADONSIM_SIMULATION_MAX", "0")
	t.Setenv("RADONSIM_SIMULATION_WORKERS", "8")
	t.Setenv("RADONSIM_SIMULATION_KEEP_CAMPAIGNS", "true")
	t.Setenv("RADONSIM_STORE_DRIVER", "memory")

	cfg := Default()
	cfg.Simulation.Seed = 99
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Logging.Level != "trace" {
		t.Errorf("level = %s, want trace", cfg.Logging.Level)
	}
	if cfg.Simulation.Max != 0 || cfg.Simulation.Workers != 8 || !cfg.Simulation.KeepCampaigns {
		t.Errorf("simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.Seed != 99 {
		t.Errorf("unset env var overwrote seed: %d", cfg.Simulation.Seed)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("driver = %s, want memory", cfg.Store.Driver)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("RADONSIM_SIMULATION_WORKERS", "many")
	err := ApplyEnv(Default())
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("ApplyEnv() error = %v, want parse env error", err)
	}
}

func TestLoad_FromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without file error = %v", err)
	}
	if cfg.Simulation.Max != constants.DefaultRandomCampaigns {
		t.Errorf("expected defaults without a file, got max %d", cfg.Simulation.Max)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.Max = 42
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Simulation.Max != 42 {
		t.Errorf("Load() max = %d, want 42", loaded.Simulation.Max)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"negative max", func(c *Config) { c.Simulation.Max = -1 }, true},
		{"exhaustive", func(c *Config) { c.Simulation.Max = 0 }, false},
		{"zero workers", func(c *Config) { c.Simulation.Workers = 0 }, true},
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }, true},
		{"negative keep", func(c *Config) { c.Backup.KeepCount = -1 }, true},
		{"bad max age", func(c *Config) { c.Backup.MaxAge = "forever" }, true},
		{"week max age", func(c *Config) { c.Backup.MaxAge = "2w" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	for _, key := range Keys {
		if _, ok := cfg.Get(key); !ok {
			t.Errorf("Get(%q) not found", key)
		}
	}
	if _, ok := cfg.Get("llm.provider"); ok {
		t.Error("Get() should reject unknown keys")
	}

	sets := map[string]string{
		"logging.level":             "debug",
		"simulation.max":            "0",
		"simulation.seed":           "-5",
		"simulation.workers":        "3",
		"simulation.keep_campaigns": "true",
		"store.driver":              "memory",
		"backup.keep_count":         "0",
		"backup.max_age":            "14d",
	}
	for key, value := range sets {
		if err := cfg.Set(key, value); err != nil {
			t.Errorf("Set(%q, %q) error = %v", key, value, err)
		}
	}
	if v, _ := cfg.Get("simulation.seed"); v != int64(-5) {
		t.Errorf("simulation.seed = %v", v)
	}
	if v, _ := cfg.Get("simulation.keep_campaigns"); v != true {
		t.Errorf("simulation.keep_campaigns = %v", v)
	}

	bad := []struct{ key, value string }{
		{"simulation.max", "lots"},
		{"simulation.workers", "0"},
		{"simulation.keep_campaigns", "maybe"},
		{"logging.level", "loud"},
		{"backup.max_age", "soon"},
		{"nope", "1"},
	}
	for _, b := range bad {
		before := *cfg
		if err := cfg.Set(b.key, b.value); err == nil {
			t.Errorf("Set(%q, %q) should fail", b.key, b.value)
		}
		if *cfg != before {
			t.Errorf("failed Set(%q) modified the config", b.key)
		}
	}
}
