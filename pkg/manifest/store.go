package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// Store loads and saves the manifest as a whole.
type Store interface {
	Load() (*Manifest, error)
	Save(*Manifest) error
}

// FileStore keeps the manifest as a JSON array in a single file that is rewritten
// atomically on every save.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the manifest. A missing file is an empty manifest.
func (fs *FileStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var entries []Entry
	if len(bytes.TrimSpace(data)) > 0 {
		if err = json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", fs.Path, err)
		}
	}
	return New(entries), nil
}

// Save rewrites the manifest file.
func (fs *FileStore) Save(m *Manifest) error {
	entries := m.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fs.Path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := atomic.WriteFile(fs.Path, &buf); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
