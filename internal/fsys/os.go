package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
)

// osFS is the host filesystem.
type osFS struct{}

// NewOS returns a Filesystem backed by the host OS.
func NewOS() WriteFS {
	return osFS{}
}

func (osFS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (osFS) Metadata(path string) (Metadata, bool) {
	lst, err := os.Lstat(path)
	if err != nil {
		return Metadata{}, false
	}

	md := Metadata{IsSymlink: lst.Mode()&fs.ModeSymlink != 0}

	// Follow symlinks for the file/dir classification. A dangling link
	// keeps IsSymlink set with both type flags false.
	info := lst
	if md.IsSymlink {
		info, err = os.Stat(path)
		if err != nil {
			return md, true
		}
	}
	md.IsDir = info.IsDir()
	md.IsFile = info.Mode().IsRegular()
	return md, true
}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func (osFS) Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func (osFS) WorkingDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (osFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}
