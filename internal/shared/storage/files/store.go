package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store is the raw-upload file area. Files are keyed by their original
// upload name, so a second upload with the same name overwrites the first.
type Store struct {
	baseDir string
}

// New creates a file area rooted at baseDir, creating it if missing.
func New(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("upload dir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes the reader's bytes under the given file name and returns the
// full path and byte count.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	path, err := s.Path(fileName)
	if err != nil {
		return "", 0, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	return path, written, nil
}

// Remove deletes the stored file for the given name.
func (s *Store) Remove(fileName string) error {
	path, err := s.Path(fileName)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Path resolves a file name to its on-disk location, rejecting names that
// would escape the file area.
func (s *Store) Path(fileName string) (string, error) {
	name := filepath.Base(filepath.Clean(fileName))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}
	return filepath.Join(s.baseDir, name), nil
}
