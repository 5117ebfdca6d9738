package cephstorage

import (
	"os"
	"path/filepath"

	"github.com/proxmox/pve-storage-sub000/shared"
)

// The FileSystem interface isolates every on-disk operation the
// keyring and configuration lifecycle need, so tests can substitute an
// in-memory filesystem instead of touching real keyring and config
// paths.
type FileSystem interface {
	PathExists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, mode os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
	MkdirAll(path string, mode os.FileMode) error
}

// OSFileSystem implements FileSystem against the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) PathExists(path string) bool {
	return shared.PathExists(path)
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte, mode os.FileMode) error {
	return os.WriteFile(path, data, mode)
}

func (OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (OSFileSystem) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

// MemFileSystem is an in-memory FileSystem, used by tests.
type MemFileSystem struct {
	Files map[string]fileEntry
}

type fileEntry struct {
	data []byte
	mode os.FileMode
}

// NewMemFileSystem returns an empty in-memory filesystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{Files: make(map[string]fileEntry)}
}

func (m *MemFileSystem) PathExists(path string) bool {
	_, ok := m.Files[path]
	return ok
}

func (m *MemFileSystem) ReadFile(path string) ([]byte, error) {
	entry, ok := m.Files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}

	return entry.data, nil
}

func (m *MemFileSystem) WriteFile(path string, data []byte, mode os.FileMode) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.Files[path] = fileEntry{data: cp, mode: mode}

	return nil
}

func (m *MemFileSystem) Rename(oldpath, newpath string) error {
	entry, ok := m.Files[oldpath]
	if !ok {
		return &os.PathError{Op: "rename", Path: oldpath, Err: os.ErrNotExist}
	}

	m.Files[newpath] = entry
	delete(m.Files, oldpath)

	return nil
}

func (m *MemFileSystem) Remove(path string) error {
	if _, ok := m.Files[path]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}

	delete(m.Files, path)

	return nil
}

func (m *MemFileSystem) MkdirAll(path string, mode os.FileMode) error {
	return nil
}

// Mode returns the mode a prior WriteFile stored path with, for tests
// asserting on permission bits.
func (m *MemFileSystem) Mode(path string) os.FileMode {
	return m.Files[path].mode
}

func ensureParentDir(fs FileSystem, path string) error {
	return fs.MkdirAll(filepath.Dir(path), 0o755)
}
