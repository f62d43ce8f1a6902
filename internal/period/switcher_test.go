package period

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conquest-enhanced/ceconfig/internal/config"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

var testFiles = []string{"units_ger.set", "bot.lua", "dcg_normal.inc"}

var liveLayout = map[string]string{
	"units_ger.set":  filepath.Join("set", "units", "units_ger.set"),
	"bot.lua":        filepath.Join("scripts", "bot.lua"),
	"dcg_normal.inc": filepath.Join("set", "dynamic_campaign", "dcg_normal.inc"),
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// setupMod builds a mod tree with live files and a source tree per period.
func setupMod(t *testing.T) config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default(base)
	cfg.FilesToUpdate = append([]string(nil), testFiles...)

	for name, rel := range liveLayout {
		writeFile(t, filepath.Join(cfg.ResourceDir(), rel), "live "+name)
	}
	for _, p := range cfg.Periods {
		for _, name := range testFiles {
			writeFile(t, filepath.Join(cfg.PeriodDir(p), "sub", name), p+" "+name)
		}
	}
	return cfg
}

func livePath(cfg config.Config, name string) string {
	return filepath.Join(cfg.ResourceDir(), liveLayout[name])
}

func TestSwitchEveryPeriod(t *testing.T) {
	for _, p := range config.DefaultPeriods {
		t.Run(p, func(t *testing.T) {
			cfg := setupMod(t)
			report, err := NewSwitcher(cfg).Switch(p, nil)
			if err != nil {
				t.Fatalf("Switch(%s): %v", p, err)
			}
			for _, name := range testFiles {
				want := readFile(t, filepath.Join(cfg.PeriodDir(p), "sub", name))
				if got := readFile(t, livePath(cfg, name)); got != want {
					t.Errorf("%s = %q, want %q", name, got, want)
				}
			}
			if n := Count(report.Apply, StatusOK); n != len(testFiles) {
				t.Errorf("applied %d files, want %d", n, len(testFiles))
			}
			if report.RolledBack {
				t.Error("unexpected rollback")
			}
		})
	}
}

func TestSwitchBackupPreservesRelativePaths(t *testing.T) {
	cfg := setupMod(t)
	if _, err := NewSwitcher(cfg).Switch("late", nil); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	for name, rel := range liveLayout {
		if got := readFile(t, filepath.Join(cfg.BackupDir, rel)); got != "live "+name {
			t.Errorf("backup of %s = %q", name, got)
		}
	}

	m, err := ReadManifest(cfg.BackupDir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Period != "late" || len(m.Files) != len(testFiles) || m.RunID == "" {
		t.Errorf("manifest = %+v", m)
	}
	if m.Files["bot.lua"].Rel != liveLayout["bot.lua"] {
		t.Errorf("bot.lua rel = %s", m.Files["bot.lua"].Rel)
	}
}

func TestSwitchFailureRestoresBackedUpFiles(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)

	// Fail while overwriting the second live file.
	applied := 0
	s.SetCopyFunc(func(src, dst string) error {
		if strings.HasPrefix(src, cfg.VariantDir()) {
			applied++
			if applied == 2 {
				return &fs.PathError{Op: "open", Path: dst, Err: fs.ErrPermission}
			}
		}
		return util.CopyFile(src, dst)
	})

	var phases []Phase
	report, err := s.Switch("early", func(p Progress) { phases = append(phases, p.Phase) })
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("expected ErrRolledBack, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected cause to be permission error, got %v", err)
	}
	if !report.RolledBack {
		t.Error("report not marked rolled back")
	}

	for _, name := range testFiles {
		if got := readFile(t, livePath(cfg, name)); got != "live "+name {
			t.Errorf("%s = %q after rollback, want original", name, got)
		}
	}
	if n := Count(report.Restore, StatusOK); n != len(testFiles) {
		t.Errorf("restored %d files, want %d", n, len(testFiles))
	}
	if phases[len(phases)-1] != PhaseRestore {
		t.Errorf("last progress phase = %v, want restore", phases[len(phases)-1])
	}
	// The third file was never reached.
	if len(report.Apply) != 2 {
		t.Errorf("apply results = %d, want 2", len(report.Apply))
	}
}

func TestSwitchBackupFailureRollsBack(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)
	s.SetCopyFunc(func(src, dst string) error {
		if strings.HasPrefix(dst, cfg.BackupDir) && strings.HasSuffix(src, "bot.lua") {
			return fs.ErrPermission
		}
		return util.CopyFile(src, dst)
	})

	report, err := s.Switch("mid", nil)
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("expected ErrRolledBack, got %v", err)
	}
	if len(report.Apply) != 0 {
		t.Errorf("apply phase ran after failed backup: %v", report.Apply)
	}
	if got := readFile(t, livePath(cfg, "units_ger.set")); got != "live units_ger.set" {
		t.Errorf("units_ger.set = %q", got)
	}
}

func TestSwitchRestoreFailuresAreRecorded(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)
	s.SetCopyFunc(func(src, dst string) error {
		if strings.HasPrefix(src, cfg.VariantDir()) && strings.HasSuffix(src, "bot.lua") {
			return errors.New("disk full")
		}
		if strings.HasPrefix(src, cfg.BackupDir) && strings.HasSuffix(src, "dcg_normal.inc") {
			return errors.New("restore denied")
		}
		return util.CopyFile(src, dst)
	})

	report, err := s.Switch("late", nil)
	var rbErr *RollbackError
	if !errors.As(err, &rbErr) {
		t.Fatalf("expected RollbackError, got %v", err)
	}
	if rbErr.RestoreFailures != 1 {
		t.Errorf("RestoreFailures = %d, want 1", rbErr.RestoreFailures)
	}
	if Count(report.Restore, StatusFailed) != 1 || Count(report.Restore, StatusOK) != 2 {
		t.Errorf("restore results = %+v", report.Restore)
	}
}

func TestSwitchMissingLiveFileIsSkipped(t *testing.T) {
	cfg := setupMod(t)
	os.Remove(livePath(cfg, "bot.lua"))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	report, err := NewSwitcher(cfg).Switch("late", nil)
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if !strings.Contains(buf.String(), "File not found, skipping backup: bot.lua") {
		t.Errorf("missing warning in log: %s", buf.String())
	}
	if Count(report.Backup, StatusOK) != 2 || Count(report.Backup, StatusMissing) != 1 {
		t.Errorf("backup results = %+v", report.Backup)
	}
	// A file with no live copy is installed at the resource root.
	if got := readFile(t, filepath.Join(cfg.ResourceDir(), "bot.lua")); got != "late bot.lua" {
		t.Errorf("bot.lua = %q", got)
	}
}

func TestSecondSwitchBacksUpInstalledFiles(t *testing.T) {
	cfg := setupMod(t)
	os.Remove(livePath(cfg, "bot.lua"))
	s := NewSwitcher(cfg)

	if _, err := s.Switch("late", nil); err != nil {
		t.Fatalf("Switch(late): %v", err)
	}
	report, err := s.Switch("early", nil)
	if err != nil {
		t.Fatalf("Switch(early): %v", err)
	}
	if n := Count(report.Backup, StatusOK); n != len(testFiles) {
		t.Errorf("backed up %d files, want %d: %+v", n, len(testFiles), report.Backup)
	}
	if got := readFile(t, filepath.Join(cfg.BackupDir, "bot.lua")); got != "late bot.lua" {
		t.Errorf("backup of bot.lua = %q", got)
	}
	if got := readFile(t, filepath.Join(cfg.ResourceDir(), "bot.lua")); got != "early bot.lua" {
		t.Errorf("bot.lua = %q", got)
	}
}

func TestSwitchMissingSourceFileIsSkipped(t *testing.T) {
	cfg := setupMod(t)
	os.Remove(filepath.Join(cfg.PeriodDir("early"), "sub", "units_ger.set"))

	report, err := NewSwitcher(cfg).Switch("early", nil)
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if Count(report.Apply, StatusMissing) != 1 {
		t.Errorf("apply results = %+v", report.Apply)
	}
	if got := readFile(t, livePath(cfg, "units_ger.set")); got != "live units_ger.set" {
		t.Errorf("units_ger.set changed to %q", got)
	}
}

func TestSwitchRejectsBadPeriods(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)

	if _, err := s.Switch("modern", nil); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("expected ErrUnknownPeriod, got %v", err)
	}

	os.RemoveAll(cfg.PeriodDir("mid"))
	if _, err := s.Switch("mid", nil); !errors.Is(err, ErrSourceMissing) {
		t.Errorf("expected ErrSourceMissing, got %v", err)
	}
	if _, err := os.Stat(cfg.BackupDir); !os.IsNotExist(err) {
		t.Error("backup directory created for rejected switch")
	}
}

func TestSwitchProgressPerFile(t *testing.T) {
	cfg := setupMod(t)
	var seen []string
	_, err := NewSwitcher(cfg).Switch("normal", func(p Progress) {
		seen = append(seen, fmt.Sprintf("%s %d/%d %s %d%%", p.Phase, p.Index, p.Total, p.Name, p.Percent()))
	})
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if len(seen) != 2*len(testFiles) {
		t.Fatalf("progress events = %v", seen)
	}
	if seen[0] != "backup 1/3 units_ger.set 33%" || seen[5] != "apply 3/3 dcg_normal.inc 100%" {
		t.Errorf("progress = %v", seen)
	}
}

func TestRestoreFromManifest(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)
	if _, err := s.Switch("late", nil); err != nil {
		t.Fatalf("Switch: %v", err)
	}

	report, err := s.Restore(nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if Count(report.Restore, StatusOK) != len(testFiles) {
		t.Errorf("restore results = %+v", report.Restore)
	}
	for _, name := range testFiles {
		if got := readFile(t, livePath(cfg, name)); got != "live "+name {
			t.Errorf("%s = %q after restore", name, got)
		}
	}
}

func TestRestoreRejectsTamperedBackup(t *testing.T) {
	cfg := setupMod(t)
	s := NewSwitcher(cfg)
	if _, err := s.Switch("late", nil); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	writeFile(t, filepath.Join(cfg.BackupDir, liveLayout["bot.lua"]), "tampered")

	if _, err := s.Restore(nil); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if got := readFile(t, livePath(cfg, "units_ger.set")); got != "late units_ger.set" {
		t.Errorf("files written despite checksum failure: %q", got)
	}
}

func TestRestoreWithoutBackup(t *testing.T) {
	cfg := setupMod(t)
	if _, err := NewSwitcher(cfg).Restore(nil); !errors.Is(err, ErrNoBackup) {
		t.Errorf("expected ErrNoBackup, got %v", err)
	}
}
