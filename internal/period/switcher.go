// Package period switches the mod between war periods by swapping a fixed
// set of managed files, with a backup taken first and restored on failure.
package period

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/conquest-enhanced/ceconfig/internal/config"
	"github.com/conquest-enhanced/ceconfig/internal/logging"
	"github.com/conquest-enhanced/ceconfig/internal/resource"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

// CopyFunc copies one file. Switcher uses util.CopyFile unless replaced.
type CopyFunc func(src, dst string) error

// Switcher performs period switches for one configuration.
type Switcher struct {
	cfg  config.Config
	copy CopyFunc
}

// NewSwitcher returns a switcher for cfg.
func NewSwitcher(cfg config.Config) *Switcher {
	return &Switcher{cfg: cfg, copy: util.CopyFile}
}

// SetCopyFunc replaces the file copier.
func (s *Switcher) SetCopyFunc(fn CopyFunc) {
	s.copy = fn
}

// livePath returns where name lives in the resource tree, falling back to
// the resource root for files that have never been installed.
func (s *Switcher) livePath(live *resource.Locator, name string) (string, string) {
	if p, ok := live.Find(name); ok {
		rel, _ := live.Rel(name)
		return p, rel
	}
	return filepath.Join(s.cfg.ResourceDir(), name), name
}

// Switch backs up every managed file, overwrites the live copies with the
// period's variants, and on any copy failure restores what was backed up.
// progress may be nil.
func (s *Switcher) Switch(period string, progress func(Progress)) (*Report, error) {
	if !s.cfg.HasPeriod(period) {
		return nil, fmt.Errorf("period %q: %w", period, ErrUnknownPeriod)
	}
	srcRoot := s.cfg.PeriodDir(period)
	if info, err := os.Stat(srcRoot); err != nil || !info.IsDir() {
		return nil, util.NewPathErrorWithHint("switch", srcRoot, ErrSourceMissing,
			"Reinstall the configurator files that ship with the mod")
	}

	// Earlier switches may have installed files at the resource root.
	live, err := resource.New(s.cfg.ResourceDir())
	if err != nil {
		return nil, err
	}
	source, err := resource.New(srcRoot)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.New().String(),
		Period:  period,
		Started: time.Now(),
	}
	log.Printf("INFO: Setting %s war period (run %s)", period, report.RunID)

	if err := s.backup(live, report, progress); err != nil {
		return s.abort(live, report, err, progress)
	}
	if err := s.apply(live, source, report, progress); err != nil {
		return s.abort(live, report, err, progress)
	}

	report.Finished = time.Now()
	log.Printf("INFO: %s war period set: %d file(s) updated, %d missing",
		period, Count(report.Apply, StatusOK), Count(report.Apply, StatusMissing))
	return report, nil
}

func (s *Switcher) backup(live *resource.Locator, report *Report, progress func(Progress)) error {
	backupDir := s.cfg.BackupDir
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return util.NewPathError("backup", backupDir, err)
	}

	manifest := Manifest{
		Version:   1,
		RunID:     report.RunID,
		Period:    report.Period,
		Timestamp: report.Started.UTC().Format(time.RFC3339),
		Files:     make(map[string]FileEntry),
	}

	total := len(s.cfg.FilesToUpdate)
	for i, name := range s.cfg.FilesToUpdate {
		notify(progress, Progress{Phase: PhaseBackup, Index: i + 1, Total: total, Name: name})

		src, ok := live.Find(name)
		if !ok {
			log.Printf("WARN: File not found, skipping backup: %s", name)
			report.Backup = append(report.Backup, FileResult{Name: name, Phase: PhaseBackup, Status: StatusMissing})
			continue
		}
		rel, _ := live.Rel(name)
		dst := filepath.Join(backupDir, rel)

		res := FileResult{Name: name, Phase: PhaseBackup, Src: src, Dst: dst}
		if err := s.copy(src, dst); err != nil {
			res.Status = StatusFailed
			res.Err = err
			report.Backup = append(report.Backup, res)
			return util.NewPathErrorWithHint("backup", src, err, permissionHint(err))
		}
		sum, size, err := fileDigest(dst)
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			report.Backup = append(report.Backup, res)
			return util.NewPathError("backup", dst, err)
		}
		res.Size = size
		report.Backup = append(report.Backup, res)
		manifest.Files[name] = FileEntry{Rel: rel, SHA256: sum, Size: size}
		logging.Debug("backed up %s -> %s (%d bytes)", src, dst, size)
	}

	return writeManifest(backupDir, manifest)
}

func (s *Switcher) apply(live, source *resource.Locator, report *Report, progress func(Progress)) error {
	total := len(s.cfg.FilesToUpdate)
	for i, name := range s.cfg.FilesToUpdate {
		notify(progress, Progress{Phase: PhaseApply, Index: i + 1, Total: total, Name: name})

		src, ok := source.Find(name)
		if !ok {
			log.Printf("WARN: File not found, skipping update: %s", name)
			report.Apply = append(report.Apply, FileResult{Name: name, Phase: PhaseApply, Status: StatusMissing})
			continue
		}
		dst, _ := s.livePath(live, name)

		res := FileResult{Name: name, Phase: PhaseApply, Src: src, Dst: dst}
		if err := s.copy(src, dst); err != nil {
			res.Status = StatusFailed
			res.Err = err
			report.Apply = append(report.Apply, res)
			return util.NewPathErrorWithHint("update", dst, err, permissionHint(err))
		}
		if info, err := os.Stat(dst); err == nil {
			res.Size = info.Size()
		}
		report.Apply = append(report.Apply, res)
		logging.Debug("updated %s from %s", dst, src)
	}
	return nil
}

// abort restores every file backed up in this run. Individual restore
// failures are logged and recorded, never returned.
func (s *Switcher) abort(live *resource.Locator, report *Report, cause error, progress func(Progress)) (*Report, error) {
	log.Printf("ERROR: Error setting %s period: %v", report.Period, cause)

	var saved []FileResult
	for _, b := range report.Backup {
		if b.Status == StatusOK {
			saved = append(saved, b)
		}
	}

	failures := 0
	for i, b := range saved {
		notify(progress, Progress{Phase: PhaseRestore, Index: i + 1, Total: len(saved), Name: b.Name})

		res := FileResult{Name: b.Name, Phase: PhaseRestore, Src: b.Dst, Dst: b.Src, Size: b.Size}
		if err := s.copy(b.Dst, b.Src); err != nil {
			log.Printf("ERROR: Error during rollback of %s: %v", b.Name, err)
			res.Status = StatusFailed
			res.Err = err
			failures++
		}
		report.Restore = append(report.Restore, res)
	}

	report.RolledBack = true
	report.Finished = time.Now()
	log.Printf("INFO: Rolled back %d file(s) after failed %s period switch", len(saved)-failures, report.Period)

	return report, &RollbackError{Period: report.Period, Cause: cause, RestoreFailures: failures}
}

// Restore copies the files listed in the backup manifest back into the
// resource tree. Every checksum is verified before any file is written.
func (s *Switcher) Restore(progress func(Progress)) (*Report, error) {
	backupDir := s.cfg.BackupDir
	m, err := ReadManifest(backupDir)
	if err != nil {
		return nil, err
	}

	for name, entry := range m.Files {
		sum, _, err := fileDigest(filepath.Join(backupDir, entry.Rel))
		if err != nil {
			return nil, util.NewPathError("restore", filepath.Join(backupDir, entry.Rel), err)
		}
		if sum != entry.SHA256 {
			return nil, fmt.Errorf("restore %s: %w", name, ErrChecksum)
		}
	}

	report := &Report{RunID: m.RunID, Period: m.Period, Started: time.Now()}
	total := len(s.cfg.FilesToUpdate)
	var failed error
	for i, name := range s.cfg.FilesToUpdate {
		notify(progress, Progress{Phase: PhaseRestore, Index: i + 1, Total: total, Name: name})

		entry, ok := m.Files[name]
		if !ok {
			report.Restore = append(report.Restore, FileResult{Name: name, Phase: PhaseRestore, Status: StatusMissing})
			continue
		}
		src := filepath.Join(backupDir, entry.Rel)
		dst := filepath.Join(s.cfg.ResourceDir(), entry.Rel)
		res := FileResult{Name: name, Phase: PhaseRestore, Src: src, Dst: dst, Size: entry.Size}
		if err := s.copy(src, dst); err != nil {
			log.Printf("ERROR: Error restoring %s: %v", name, err)
			res.Status = StatusFailed
			res.Err = err
			if failed == nil {
				failed = util.NewPathErrorWithHint("restore", dst, err, permissionHint(err))
			}
		}
		report.Restore = append(report.Restore, res)
	}
	report.Finished = time.Now()
	log.Printf("INFO: Restored %d file(s) from backup %s", Count(report.Restore, StatusOK), m.RunID)
	return report, failed
}

func notify(progress func(Progress), p Progress) {
	if progress != nil {
		progress(p)
	}
}

func permissionHint(err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return "Close the game and make sure the mod folder is not read-only"
	}
	return ""
}
