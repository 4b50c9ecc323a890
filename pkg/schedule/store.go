package schedule

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// Store loads and saves a Schedule.
type Store interface {
	Load() (Schedule, error)
	Save(Schedule) error
}

// FileStore keeps the schedule as a JSON object in a single file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the schedule. It returns ErrNoSchedule when the file does not exist.
func (fs *FileStore) Load() (Schedule, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSchedule, fs.Path)
		}
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	s := make(Schedule)
	if err = json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schedule %s: %w", fs.Path, err)
	}
	return s, nil
}

// Save replaces the schedule file. Keys are written in date order.
func (fs *FileStore) Save(s Schedule) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string][]string(s)); err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	if dir := filepath.Dir(fs.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create schedule directory: %w", err)
		}
	}
	if err := atomic.WriteFile(fs.Path, &buf); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}
	return nil
}
