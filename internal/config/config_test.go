package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileCreatesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	cfg, err := Load(path, tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default(tmpDir)
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected defaults to be persisted: %v", err)
	}
	var persisted Config
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted config is not JSON: %v", err)
	}
	if !reflect.DeepEqual(persisted, want) {
		t.Errorf("persisted %+v, want %+v", persisted, want)
	}
}

func TestLoad_CorruptFileReplacedWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	cfg, err := Load(path, tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupDir != filepath.Join(tmpDir, "backups") {
		t.Errorf("BackupDir = %s", cfg.BackupDir)
	}
	if len(cfg.FilesToUpdate) != 18 {
		t.Errorf("expected 18 managed files, got %d", len(cfg.FilesToUpdate))
	}

	data, _ := os.ReadFile(path)
	var persisted Config
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("corrupt file was not replaced: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, []byte(`{"base_dir": "/games/ce", "periods": ["early", "late"]}`), 0644)

	cfg, err := Load(path, tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseDir != "/games/ce" {
		t.Errorf("BaseDir = %s", cfg.BaseDir)
	}
	if !reflect.DeepEqual(cfg.Periods, []string{"early", "late"}) {
		t.Errorf("Periods = %v", cfg.Periods)
	}
	if len(cfg.FilesToUpdate) != len(DefaultManagedFiles) {
		t.Errorf("FilesToUpdate should default, got %v", cfg.FilesToUpdate)
	}
	if cfg.Encoding != "utf-8" || cfg.LogFile != DefaultLogFile {
		t.Errorf("Encoding/LogFile not defaulted: %q %q", cfg.Encoding, cfg.LogFile)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.json")
	cfg := Default("/games/ce")
	cfg.Encoding = "windows-1251"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path, tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestPaths(t *testing.T) {
	cfg := Default("/games/ce")
	if got := cfg.PeriodDir("late"); got != filepath.Join("/games/ce", "configurator files", "latewar") {
		t.Errorf("PeriodDir = %s", got)
	}
	if got := cfg.ResourceDir(); got != filepath.Join("/games/ce", "resource") {
		t.Errorf("ResourceDir = %s", got)
	}
	if !cfg.HasPeriod("mid") || cfg.HasPeriod("modern") {
		t.Error("HasPeriod mismatch")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty base", func(c *Config) { c.BaseDir = "" }, true},
		{"no periods", func(c *Config) { c.Periods = nil }, true},
		{"duplicate file", func(c *Config) { c.FilesToUpdate = append(c.FilesToUpdate, "bot.lua") }, true},
		{"empty file name", func(c *Config) { c.FilesToUpdate = []string{""} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/games/ce")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_BackupDirFollowsBaseDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, []byte(`{"base_dir": "/games/ce"}`), 0644)

	cfg, err := Load(path, tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupDir != filepath.Join("/games/ce", "backups") {
		t.Errorf("BackupDir = %s", cfg.BackupDir)
	}
}
