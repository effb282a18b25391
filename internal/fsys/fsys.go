// Package fsys abstracts filesystem access behind a narrow interface.
//
// The ignore engine, walker and discovery pipeline are constructed with a
// Filesystem and never touch the OS directly, so every traversal behavior
// can be exercised against the in-memory implementation in tests.
package fsys

import (
	"io/fs"
)

// Metadata describes the type of a filesystem entry.
type Metadata struct {
	IsFile    bool
	IsDir     bool
	IsSymlink bool
}

// Filesystem is the read-side interface used by the core.
type Filesystem interface {
	// Exists reports whether a path exists.
	Exists(path string) bool

	// Metadata returns type information for a path. The second return is
	// false when the path does not exist or cannot be stat'ed.
	Metadata(path string) (Metadata, bool)

	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// List returns the full paths of the entries of dir, in whatever order
	// the underlying filesystem yields them.
	List(dir string) ([]string, error)

	// Canonicalize resolves a path to its canonical absolute form. It is
	// best-effort: on failure the cleaned input is returned.
	Canonicalize(path string) string

	// WorkingDirectory returns the current working directory.
	WorkingDirectory() string
}

// WriteFS extends Filesystem with the write operations needed to persist
// the project state file. The core only ever reads; the CLI layer writes.
type WriteFS interface {
	Filesystem
	WriteFile(path string, data []byte, perm fs.FileMode) error
}
