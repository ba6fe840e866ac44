// Package loader reads configuration sources into nested maps.
//
// TOML and YAML files are supported, chosen by file extension, along with
// ROPEDIT_* environment variables. Missing files are not an error: the
// loaders return nil, nil so callers fall back to defaults.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Loader reads one configuration source.
type Loader interface {
	// Load returns the settings of the source, or nil, nil when the
	// source does not exist.
	Load() (map[string]any, error)
}

// FileSystem reads whole files. fstest.MapFS satisfies it.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns a loader for path chosen by its extension:
// .toml for TOML, .yaml or .yml for YAML.
func ForPath(fsys FileSystem, path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return NewFile(fsys, path, format), nil
}

// readFile reads path, mapping a missing file to nil data and no error.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}
