package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store handles persistence of generated calendar files
type Store struct {
	dir string
}

// New creates a new Store rooted at dir, creating the directory if needed
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}

	expanded, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(expanded, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Store{dir: expanded}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the resolved output directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of filename inside the output directory
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// WriteCalendar streams a calendar into filename and returns its full path.
// The previous file, if any, is only replaced once write has succeeded.
func (s *Store) WriteCalendar(filename string, write func(io.Writer) error) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid calendar filename %q", filename)
	}

	path := s.Path(filename)

	tmp, err := os.CreateTemp(s.dir, "."+filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure below; after the rename it no
	// longer exists and Remove is a no-op.
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing calendar: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("setting calendar permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("replacing calendar: %w", err)
	}

	return path, nil
}
