// Copyright (c) 2026 Vivi Sews. All rights reserved.

package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vivisews/vivisews/internal/platform/apperr"
)

// DiskStore keeps images under one root directory.
type DiskStore struct {
	root *os.Root
}

// NewDiskStore creates dir and its per-kind subdirectories, then opens it as the store root.
func NewDiskStore(dir string) (*DiskStore, error) {
	for _, kind := range []Kind{KindFabric, KindProject, KindPattern} {
		if err := os.MkdirAll(filepath.Join(dir, kind.Dir()), 0o755); err != nil {
			return nil, fmt.Errorf("upload: create %s directory: %w", kind.Dir(), err)
		}
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("upload: open root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Write creates name under the kind's directory and copies src into it.
// A partially written file is removed.
func (store *DiskStore) Write(kind Kind, name string, src io.Reader) (int64, error) {
	relative := filepath.Join(kind.Dir(), name)

	file, err := store.root.OpenFile(relative, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("upload: create file: %w", err)
	}

	size, err := io.Copy(file, src)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = store.root.Remove(relative)
		return 0, fmt.Errorf("upload: write file: %w", err)
	}
	return size, nil
}

// Remove deletes name from the kind's directory. NotFound when it does not exist.
func (store *DiskStore) Remove(kind Kind, name string) error {
	err := store.root.Remove(filepath.Join(kind.Dir(), name))
	if errors.Is(err, fs.ErrNotExist) {
		return apperr.NotFound("File")
	}
	if err != nil {
		return fmt.Errorf("upload: remove file: %w", err)
	}
	return nil
}

// FS exposes the stored files read-only for static serving.
func (store *DiskStore) FS() fs.FS {
	return store.root.FS()
}

func (store *DiskStore) Close() error {
	return store.root.Close()
}
