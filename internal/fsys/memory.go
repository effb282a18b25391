package fsys

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Memory is an in-memory Filesystem backed by afero's MemMapFs. It is the
// implementation handed to the engine in tests, but is not test-only: any
// caller can run discovery against a synthetic tree.
type Memory struct {
	fs  afero.Fs
	cwd string
}

// NewMemory returns an empty in-memory filesystem whose working directory
// is cwd. The directory itself is created.
func NewMemory(cwd string) *Memory {
	m := &Memory{fs: afero.NewMemMapFs(), cwd: filepath.Clean(cwd)}
	_ = m.fs.MkdirAll(m.cwd, 0o755)
	return m
}

func (m *Memory) Exists(path string) bool {
	_, err := m.fs.Stat(path)
	return err == nil
}

func (m *Memory) Metadata(path string) (Metadata, bool) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return Metadata{}, false
	}
	return Metadata{
		IsFile: info.Mode().IsRegular(),
		IsDir:  info.IsDir(),
	}, true
}

func (m *Memory) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(m.fs, path)
}

func (m *Memory) List(dir string) ([]string, error) {
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func (m *Memory) Canonicalize(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.cwd, path)
	}
	return filepath.Clean(path)
}

func (m *Memory) WorkingDirectory() string {
	return m.cwd
}

func (m *Memory) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(m.fs, path, data, perm)
}

// MkdirAll creates a directory and all parents. Useful for laying out
// synthetic trees with empty directories.
func (m *Memory) MkdirAll(path string) error {
	return m.fs.MkdirAll(path, 0o755)
}

// Remove deletes a file or empty directory.
func (m *Memory) Remove(path string) error {
	return m.fs.Remove(path)
}
