package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// FileStore keeps one file per slot under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(err, "error creating the cache directory")
	}

	return &FileStore{dir: dir}, nil
}

// Write replaces the slot's contents. The write goes through a temp file and
// a rename so a concurrent Read never observes a half-written body.
func (s *FileStore) Write(slot string, data []byte) error {
	if slot == "" {
		return nil
	}

	tmp, err := os.CreateTemp(s.dir, slot+".tmp-*")
	if err != nil {
		return pkgerrors.Wrap(err, "error creating the temporary cache file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return pkgerrors.Wrap(err, "error writing the cache file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return pkgerrors.Wrap(err, "error closing the cache file")
	}

	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return pkgerrors.Wrap(err, "error replacing the cache file")
	}

	return nil
}

func (s *FileStore) Read(slot string) ([]byte, error) {
	if slot == "" {
		return nil, ErrNotCached
	}

	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "error reading the cache file")
	}

	return data, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot)
}
