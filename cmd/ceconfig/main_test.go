package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conquest-enhanced/ceconfig/internal/config"
	"github.com/conquest-enhanced/ceconfig/internal/history"
	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// setupMod writes a mod tree and a config file pointing at it, and returns
// the config path.
func setupMod(t *testing.T) (string, config.Config) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default(base)
	cfg.FilesToUpdate = []string{"dcg_normal.inc"}
	cfg.LogFile = filepath.Join(base, "ce_configurator.log")

	writeFile(t, filepath.Join(base, settings.DifficultyDir, "dcg_normal.inc"),
		"{BotResources 6}\n{StageCP 1 2 3 4 5 6 7}\n{Start \"4000\"}\n")
	writeFile(t, filepath.Join(base, settings.WinPointsFile), "{winpoints 500}\n")
	writeFile(t, filepath.Join(base, settings.ResupplyFile), "{regenerationPeriod 0};\n")
	for _, p := range cfg.Periods {
		writeFile(t, filepath.Join(cfg.PeriodDir(p), "dcg_normal.inc"), p+" campaign\n")
	}

	path := filepath.Join(base, "config.json")
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	return path, cfg
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(append([]string{"--config", configPath}, args...), &out, &errOut)
	return out.String(), err
}

func TestSetWinPoints(t *testing.T) {
	path, cfg := setupMod(t)
	out, err := run(t, path, "set", "win-points", "24000")
	if err != nil {
		t.Fatalf("set win-points: %v", err)
	}
	if !strings.Contains(out, "Points to Win updated successfully!") {
		t.Errorf("output = %q", out)
	}
	data, _ := os.ReadFile(filepath.Join(cfg.BaseDir, settings.WinPointsFile))
	if string(data) != "{winpoints 24000}\n" {
		t.Errorf("file = %q", data)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	path, _ := setupMod(t)
	tests := [][]string{
		{"set", "ai-army", "11"},
		{"set", "ai-army", "lots"},
		{"set", "win-points", "0"},
		{"set", "ammo-regen", "maybe"},
		{"set", "damage", "hybrid"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := run(t, path, args...); !errors.Is(err, util.ErrInvalidValue) {
				t.Errorf("err = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestAmmoRegenOn(t *testing.T) {
	path, cfg := setupMod(t)
	if _, err := run(t, path, "set", "ammo-regen", "on"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(cfg.BaseDir, settings.ResupplyFile))
	if string(data) != "{regenerationPeriod 5};\n" {
		t.Errorf("resupply = %q", data)
	}
}

func TestPeriodSetAndHistory(t *testing.T) {
	path, cfg := setupMod(t)

	out, err := run(t, path, "period", "set", "mid")
	if err != nil {
		t.Fatalf("period set: %v", err)
	}
	if !strings.Contains(out, "Mid War (1941-1943) war period set") {
		t.Errorf("output = %q", out)
	}
	data, _ := os.ReadFile(filepath.Join(cfg.BaseDir, settings.DifficultyDir, "dcg_normal.inc"))
	if string(data) != "mid campaign\n" {
		t.Errorf("live file = %q", data)
	}

	out, err = run(t, path, "period", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "* mid") {
		t.Errorf("list does not mark mid as current:\n%s", out)
	}

	if _, err := run(t, path, "period", "set", "modern"); err == nil {
		t.Error("unknown period accepted")
	}

	out, err = run(t, path, "history")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("history:\n%s", out)
	}
	if !strings.Contains(lines[1], "modern") || !strings.Contains(lines[1], "rejected") {
		t.Errorf("newest entry = %q", lines[1])
	}
	if !strings.Contains(lines[2], "mid") || !strings.Contains(lines[2], "applied") {
		t.Errorf("oldest entry = %q", lines[2])
	}

	if _, err := run(t, path, "restore"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(cfg.BaseDir, settings.DifficultyDir, "dcg_normal.inc"))
	if !strings.HasPrefix(string(data), "{BotResources 6}") {
		t.Errorf("after restore = %q", data)
	}
}

func TestShow(t *testing.T) {
	path, _ := setupMod(t)
	out, err := run(t, path, "show")
	if err != nil {
		t.Fatal(err)
	}
	wants := []string{
		fmt.Sprintf("%-22s %s", "AI army size", "6"),
		fmt.Sprintf("%-22s %s", "Points to win", "500"),
		fmt.Sprintf("%-22s %s", "Ammo regeneration", "off"),
		fmt.Sprintf("%-22s %s", "Stage sizes", "1 2 3 4 5 6 7"),
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	// The ballistics file is absent in this tree; show reports it and carries on.
	if !strings.Contains(out, fmt.Sprintf("%-22s error:", "Damage")) {
		t.Errorf("missing ballistics not reported:\n%s", out)
	}
}

func TestMissingConfigIsCreated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	args := []string{"--config", path, "period", "list"}
	if err := execute(args, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestFailedCommandReleasesHistory(t *testing.T) {
	path, cfg := setupMod(t)
	if _, err := run(t, path, "period", "set", "modern"); err == nil {
		t.Fatal("unknown period accepted")
	}

	hist, err := history.Open(filepath.Join(cfg.BackupDir, HistoryFile))
	if err != nil {
		t.Fatalf("history still locked after failed command: %v", err)
	}
	defer hist.Close()
	entries, err := hist.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Outcome != history.OutcomeRejected {
		t.Errorf("history = %+v", entries)
	}
}
