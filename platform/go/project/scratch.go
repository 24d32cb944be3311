package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Scratch is a temporary, project-shaped source tree living under the project root.
// The host tool only deploys package directories inside the project, so it cannot live in os.TempDir.
type Scratch struct {
	root string
	name string
}

// NewScratch creates <root>/<prefix>-<short id>.
func NewScratch(root, prefix string) (*Scratch, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("scratch prefix is required")
	}
	name := prefix + "-" + uuid.NewString()[:8]
	s := &Scratch{root: root, name: name}
	if err := os.Mkdir(s.Path(), 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return s, nil
}

// Name is the scratch directory path relative to the project root.
func (s *Scratch) Name() string {
	return s.name
}

// Path is the absolute scratch directory path.
func (s *Scratch) Path(elem ...string) string {
	return filepath.Join(append([]string{s.root, s.name}, elem...)...)
}

// EnsureDir creates a nested directory inside the scratch tree and returns its path.
func (s *Scratch) EnsureDir(elem ...string) (string, error) {
	dir := s.Path(elem...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch subdir: %w", err)
	}
	return dir, nil
}

// Remove deletes the scratch tree. Removing an already removed tree is not an error.
func (s *Scratch) Remove() error {
	if err := os.RemoveAll(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove scratch dir: %w", err)
	}
	return nil
}
