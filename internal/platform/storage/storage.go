package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists uploaded files (signed contracts, profile images) and hands
// back a URL path the API can serve them under.
type Store interface {
	Save(name string, data []byte) (string, error)
	Open(name string) ([]byte, error)
	Delete(name string) error
}

// DiskStore keeps uploads under a single directory. File names are flattened
// so a crafted name cannot escape the root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(name string, data []byte) (string, error) {
	clean := sanitize(name)
	if clean == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(s.root, clean)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/files/" + clean, nil
}

func (s *DiskStore) Open(name string) ([]byte, error) {
	clean := sanitize(name)
	if clean == "" {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	return os.ReadFile(filepath.Join(s.root, clean))
}

func (s *DiskStore) Delete(name string) error {
	clean := sanitize(name)
	if clean == "" {
		return fmt.Errorf("invalid file name %q", name)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func sanitize(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
