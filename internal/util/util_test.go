package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 kB"},
		{-5, "0 B"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	if got := FormatAgo(time.Time{}); got != "never" {
		t.Errorf("zero time = %q, want never", got)
	}
	if got := FormatAgo(time.Now().Add(-3 * time.Hour)); !strings.Contains(got, "hours ago") {
		t.Errorf("3h ago = %q", got)
	}
}

func TestCopyFilePreservesContentAndMtime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "units_ger.set")
	os.WriteFile(src, []byte("{unit \"pz4\"}\n"), 0640)
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	os.Chtimes(src, mtime, mtime)

	dst := filepath.Join(dir, "backups", "set", "units_ger.set")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if string(data) != "{unit \"pz4\"}\n" {
		t.Errorf("content = %q", data)
	}
	info, _ := os.Stat(dst)
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	err := CopyFile(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestPathErrorUnwrapAndHint(t *testing.T) {
	err := NewPathErrorWithHint("backup", "/x/bot.lua", fs.ErrPermission, "Close the game first")
	wrapped := fmt.Errorf("period late: %w", err)

	if !errors.Is(wrapped, fs.ErrPermission) {
		t.Error("expected wrapped error to match fs.ErrPermission")
	}
	if got := GetErrorHint(wrapped); got != "Close the game first" {
		t.Errorf("hint = %q", got)
	}
	if got := err.Error(); got != "backup /x/bot.lua: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if GetErrorHint(errors.New("plain")) != "" {
		t.Error("plain error should have no hint")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("AI army size", "12", "must be between 1 and 10")
	if got := err.Error(); got != "invalid AI army size '12': must be between 1 and 10" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("updating: %w", NewValidationError("win points", "-1", "must be positive"))
	if !errors.Is(err, ErrInvalidValue) {
		t.Error("expected ValidationError to match ErrInvalidValue")
	}
}
