package period

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownPeriod indicates a period that is not in the configuration.
	ErrUnknownPeriod = errors.New("unknown period")

	// ErrSourceMissing indicates that the period's source tree does not exist.
	ErrSourceMissing = errors.New("period source directory not found")

	// ErrRolledBack indicates the switch failed and backed-up files were restored.
	ErrRolledBack = errors.New("changes rolled back")

	// ErrNoBackup indicates there is no backup manifest to restore from.
	ErrNoBackup = errors.New("no backup found")

	// ErrChecksum indicates a backup file no longer matches its manifest.
	ErrChecksum = errors.New("backup checksum mismatch")
)

// Phase identifies a step of a period switch.
type Phase int

const (
	PhaseBackup Phase = iota
	PhaseApply
	PhaseRestore
)

func (p Phase) String() string {
	switch p {
	case PhaseBackup:
		return "backup"
	case PhaseApply:
		return "apply"
	case PhaseRestore:
		return "restore"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Status is the outcome for one file in one phase.
type Status int

const (
	StatusOK      Status = iota
	StatusMissing        // file not found; skipped
	StatusFailed         // copy failed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// FileResult records what happened to one managed file in one phase.
type FileResult struct {
	Name   string
	Phase  Phase
	Status Status
	Src    string
	Dst    string
	Size   int64
	Err    error
}

// Progress is reported once per file while a switch or restore runs.
type Progress struct {
	Phase Phase
	Index int // 1-based
	Total int
	Name  string
}

// Percent returns the completion of the current phase, 0-100.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return p.Index * 100 / p.Total
}

// Report is the explicit per-file outcome of a switch.
type Report struct {
	RunID      string
	Period     string
	Started    time.Time
	Finished   time.Time
	Backup     []FileResult
	Apply      []FileResult
	Restore    []FileResult
	RolledBack bool
}

// Count returns how many results in rs have status s.
func Count(rs []FileResult, s Status) int {
	n := 0
	for _, r := range rs {
		if r.Status == s {
			n++
		}
	}
	return n
}

// Bytes returns the total size of successfully copied files in rs.
func Bytes(rs []FileResult) int64 {
	var n int64
	for _, r := range rs {
		if r.Status == StatusOK {
			n += r.Size
		}
	}
	return n
}

// RollbackError is returned when a switch failed part way and the backed-up
// files were restored.
type RollbackError struct {
	Period          string
	Cause           error
	RestoreFailures int
}

func (e *RollbackError) Error() string {
	msg := fmt.Sprintf("setting %s period failed: %v; changes rolled back", e.Period, e.Cause)
	if e.RestoreFailures > 0 {
		msg += fmt.Sprintf(" (%d file(s) could not be restored)", e.RestoreFailures)
	}
	return msg
}

func (e *RollbackError) Unwrap() []error {
	return []error{ErrRolledBack, e.Cause}
}
