// Package resource locates game resource files by name inside a directory tree.
package resource

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Locator maps file names to the first path where they were found under Root.
// It is built once and not refreshed; call New again after files move.
type Locator struct {
	Root       string
	paths      map[string]string
	duplicates map[string][]string
}

// New walks root and indexes every regular file. Within a directory, files
// are indexed before sub-directories are entered, and sub-directories are
// visited in lexical order, so the shallowest copy of a name wins.
// A missing root yields an empty locator.
func New(root string) (*Locator, error) {
	l := &Locator{
		Root:       root,
		paths:      make(map[string]string),
		duplicates: make(map[string][]string),
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: Resource directory %s does not exist", root)
			return l, nil
		}
		return nil, fmt.Errorf("resource: stat %s: %w", root, err)
	}
	if err := l.walk(root); err != nil {
		return nil, err
	}
	for name, extra := range l.duplicates {
		log.Printf("WARN: %s found more than once under %s; using %s (also at %v)",
			name, root, l.paths[name], extra)
	}
	return l, nil
}

func (l *Locator) walk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("resource: read %s: %w", dir, err)
	}

	var subdirs []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if first, ok := l.paths[e.Name()]; ok {
			if first != full {
				l.duplicates[e.Name()] = append(l.duplicates[e.Name()], full)
			}
			continue
		}
		l.paths[e.Name()] = full
	}

	sort.Strings(subdirs)
	for _, sub := range subdirs {
		if err := l.walk(sub); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the indexed path for name.
func (l *Locator) Find(name string) (string, bool) {
	p, ok := l.paths[name]
	return p, ok
}

// Rel returns the indexed path for name relative to Root.
func (l *Locator) Rel(name string) (string, bool) {
	p, ok := l.paths[name]
	if !ok {
		return "", false
	}
	rel, err := filepath.Rel(l.Root, p)
	if err != nil {
		return "", false
	}
	return rel, true
}

// Duplicates returns the extra paths found for name after the first.
func (l *Locator) Duplicates(name string) []string {
	return l.duplicates[name]
}

// Len returns the number of distinct names indexed.
func (l *Locator) Len() int {
	return len(l.paths)
}
