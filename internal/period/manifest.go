package period

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ManifestName is the manifest file written into the backup directory.
const ManifestName = "manifest.json"

// Manifest describes the files saved by the most recent backup.
type Manifest struct {
	Version   int                  `json:"version"`
	RunID     string               `json:"run_id"`
	Period    string               `json:"period"` // period being switched to
	Timestamp string               `json:"timestamp"`
	Files     map[string]FileEntry `json:"files"`
}

// FileEntry describes a single backed-up file.
type FileEntry struct {
	Rel    string `json:"rel"` // path relative to the resource directory
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

func writeManifest(backupDir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("period: marshal manifest: %w", err)
	}
	path := filepath.Join(backupDir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("period: write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads the manifest from backupDir.
func ReadManifest(backupDir string) (Manifest, error) {
	path := filepath.Join(backupDir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, fmt.Errorf("period: %s: %w", path, ErrNoBackup)
		}
		return Manifest{}, fmt.Errorf("period: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("period: parse manifest: %w", err)
	}
	return m, nil
}

// fileDigest returns the hex SHA-256 and size of path.
func fileDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
