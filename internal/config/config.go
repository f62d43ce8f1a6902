package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "config.json"

// DefaultLogFile is the log file written next to the configuration.
const DefaultLogFile = "ce_configurator.log"

// DefaultPeriods lists the war periods shipped with the mod.
var DefaultPeriods = []string{"normal", "early", "mid", "late"}

// DefaultManagedFiles lists the files swapped when the war period changes.
var DefaultManagedFiles = []string{
	"units_fin.set", "units_fin2.set", "units_ger.set", "units_ger2.set",
	"units_rus.set", "units_rus2.set", "bot.wave_system.lua", "bot.lua",
	"dcg_easy.inc", "dcg_normal.inc", "dcg_hard.inc", "dcg_heroic.inc",
	"unit_research_fin.set", "unit_research_fin2.set", "unit_research_ger.set",
	"unit_research_ger2.set", "unit_research_rus.set", "unit_research_rus2.set",
}

// Config is the persisted configurator configuration.
type Config struct {
	BaseDir       string   `json:"base_dir"`
	BackupDir     string   `json:"backup_dir"`
	Periods       []string `json:"periods"`
	FilesToUpdate []string `json:"files_to_update"`
	Encoding      string   `json:"encoding,omitempty"` // Game file text encoding (default utf-8)
	LogFile       string   `json:"log_file,omitempty"`
}

// Default returns the configuration used when none exists on disk.
// baseDir is normally the directory holding the executable.
func Default(baseDir string) Config {
	return Config{
		BaseDir:       baseDir,
		BackupDir:     filepath.Join(baseDir, "backups"),
		Periods:       append([]string(nil), DefaultPeriods...),
		FilesToUpdate: append([]string(nil), DefaultManagedFiles...),
		Encoding:      "utf-8",
		LogFile:       DefaultLogFile,
	}
}

// ResourceDir is the live game resource tree.
func (c Config) ResourceDir() string {
	return filepath.Join(c.BaseDir, "resource")
}

// VariantDir holds the alternative files shipped with the configurator.
func (c Config) VariantDir() string {
	return filepath.Join(c.BaseDir, "configurator files")
}

// PeriodDir is the source tree for the given war period.
func (c Config) PeriodDir(period string) string {
	return filepath.Join(c.VariantDir(), period+"war")
}

// HasPeriod reports whether period is one of the configured periods.
func (c Config) HasPeriod(period string) bool {
	for _, p := range c.Periods {
		if p == period {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values that would make every
// operation fail.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is empty")
	}
	if len(c.Periods) == 0 {
		return fmt.Errorf("no periods configured")
	}
	seen := make(map[string]bool, len(c.FilesToUpdate))
	for _, name := range c.FilesToUpdate {
		if name == "" {
			return fmt.Errorf("files_to_update contains an empty name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate managed file %q", name)
		}
		seen[name] = true
	}
	return nil
}

// Load reads the configuration from path. A missing or unparsable file is
// replaced by Default(baseDir), which is written back to path.
func Load(path, baseDir string) (Config, error) {
	log.Printf("INFO: Loading configuration from %s", path)

	defaultConfig := Default(baseDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return defaultConfig, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		log.Printf("WARN: %s not found. Creating default configuration.", path)
		return defaultConfig, Save(path, defaultConfig)
	}

	// Initialize with defaults before unmarshalling
	cfg := defaultConfig
	cfg.BackupDir = "" // derived from base_dir when the file omits it
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("WARN: Failed to parse config JSON from %s: %v. Replacing with defaults.", path, err)
		return defaultConfig, Save(path, defaultConfig)
	}
	if cfg.Encoding == "" {
		cfg.Encoding = defaultConfig.Encoding
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultConfig.LogFile
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.BaseDir, "backups")
	}

	log.Printf("INFO: Loaded configuration: base=%s, %d managed file(s), %d period(s)",
		cfg.BaseDir, len(cfg.FilesToUpdate), len(cfg.Periods))
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
