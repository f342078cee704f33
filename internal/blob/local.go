package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/wanderlust/wanderlust/internal/model"
)

// LocalStore keeps blobs as flat files in a directory.
type LocalStore struct {
	dir       string
	urlPrefix string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Store writes r to a new file named by a ULID and the format extension.
func (s *LocalStore) Store(ctx context.Context, r io.Reader, meta Metadata) (model.Image, error) {
	filename := ulid.Make().String() + extensionFor(meta.Format)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return model.Image{}, fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return model.Image{}, fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return model.Image{}, fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.Image{}, fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, filename)); err != nil {
		return model.Image{}, fmt.Errorf("rename: %w", err)
	}

	return model.Image{URL: s.urlPrefix + "/" + filename, Filename: filename}, nil
}

// Release removes the file. Missing files and names this store never hands
// out are not an error; nothing outside the directory is touched.
func (s *LocalStore) Release(ctx context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Open returns the file contents.
func (s *LocalStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	return f, nil
}

func (s *LocalStore) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, filename), nil
}
