package adapter

import (
	"os"
	"path/filepath"
)

// CircuitFSAdapter hides direct filesystem access from the command layer so
// pipeline wiring can be tested without touching the disk.
type CircuitFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path string, content []byte, perm os.FileMode) error

	// Glob expands a shell pattern into matching file paths.
	Glob(pattern string) ([]string, error)
}

// LocalCircuitFSAdapter is the os-backed implementation.
type LocalCircuitFSAdapter struct{}

// NewLocalCircuitFSAdapter constructs a LocalCircuitFSAdapter ready to be
// wired into the commands.
func NewLocalCircuitFSAdapter() *LocalCircuitFSAdapter {
	return &LocalCircuitFSAdapter{}
}

// ReadFile loads a file from disk.
func (a *LocalCircuitFSAdapter) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes content to path, creating it if needed.
func (a *LocalCircuitFSAdapter) WriteFile(path string, content []byte, perm os.FileMode) error {
	return os.WriteFile(path, content, perm)
}

// Glob expands pattern relative to the working directory.
func (a *LocalCircuitFSAdapter) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}
