package patch

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/creachadair/atomicfile"

	"github.com/conquest-enhanced/ceconfig/internal/logging"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

// ErrNoMatch is returned when none of the edits matched the file.
var ErrNoMatch = errors.New("pattern not found")

// Result reports what File did to a single file.
type Result struct {
	Path    string
	Matches []int // per edit, in order
	Changed bool  // false when every match already held the target value
}

// Total returns the number of matched sites across all edits.
func (r Result) Total() int {
	n := 0
	for _, m := range r.Matches {
		n += m
	}
	return n
}

// Read loads and decodes a whole file.
func Read(path string, codec Codec) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", util.NewPathErrorWithHint("read", path, err,
			"Check that the configurator sits in the mod folder next to resource/")
	}
	content, err := codec.Decode(data)
	if err != nil {
		return "", util.NewPathError("read", path, err)
	}
	return content, nil
}

// File reads path, applies edits in order, and writes the result back
// through a temporary file renamed over the original. When no edit matches,
// the file is left untouched and ErrNoMatch is returned. When the edits
// match but change nothing, the file is not rewritten.
func File(path string, codec Codec, edits ...Edit) (Result, error) {
	res := Result{Path: path, Matches: make([]int, len(edits))}

	content, err := Read(path, codec)
	if err != nil {
		return res, err
	}

	updated := content
	for i, e := range edits {
		var n int
		updated, n = e.Apply(updated)
		res.Matches[i] = n
		if n > 1 {
			log.Printf("WARN: %s matched %d times in %s; all occurrences replaced", e, n, path)
		}
		logging.Debug("%s: %s matched %d", path, e, n)
	}

	if res.Total() == 0 {
		return res, util.NewPathErrorWithHint("patch", path, ErrNoMatch,
			"The file does not contain the expected setting; it may come from a different mod version")
	}
	if updated == content {
		return res, nil
	}

	if err := Write(path, codec, updated); err != nil {
		return res, err
	}
	res.Changed = true
	return res, nil
}

// Write encodes content and atomically replaces path, keeping its mode.
func Write(path string, codec Codec, content string) error {
	data, err := codec.Encode(content)
	if err != nil {
		return util.NewPathError("write", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	out, err := atomicfile.New(path, mode)
	if err != nil {
		return util.NewPathErrorWithHint("write", path, err,
			"Close the game and check that the mod folder is writable")
	}
	defer out.Cancel()

	if _, err := out.Write(data); err != nil {
		return util.NewPathError("write", path, err)
	}
	if err := out.Close(); err != nil {
		return util.NewPathError("write", path, fmt.Errorf("commit: %w", err))
	}
	return nil
}
