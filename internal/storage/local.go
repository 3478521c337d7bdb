package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the named asset does not exist.
var ErrNotFound = errors.New("storage: asset not found")

// LocalAssetStore serves downloadable files from a directory on disk.
type LocalAssetStore struct {
	baseDir string
}

// NewLocalAssetStore creates a LocalAssetStore rooted at baseDir.
func NewLocalAssetStore(baseDir string) *LocalAssetStore {
	return &LocalAssetStore{baseDir: baseDir}
}

// Ensure LocalAssetStore implements AssetStore at compile time.
var _ AssetStore = (*LocalAssetStore)(nil)

func (s *LocalAssetStore) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("storage: open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}

func (s *LocalAssetStore) Put(_ context.Context, name string, data io.Reader) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// resolve maps an asset name to its on-disk path, rejecting anything
// that would escape the base directory.
func (s *LocalAssetStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(s.baseDir, name), nil
}
