// Package logging provides the log file setup and debug logging used by the
// configurator.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// DebugEnabled controls whether Debug() produces output.
// Set via --debug flag or DEBUG=1 environment variable.
var DebugEnabled bool

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}

// Setup points the standard logger at path, truncating any previous run's
// log. When echo is non-nil, log lines are also written there.
// The returned closer must be called on exit.
func Setup(path string, echo io.Writer) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	if echo != nil {
		log.SetOutput(io.MultiWriter(f, echo))
	} else {
		log.SetOutput(f)
	}
	log.SetFlags(log.LstdFlags)
	if os.Getenv("DEBUG") == "1" {
		DebugEnabled = true
	}
	return f, nil
}
