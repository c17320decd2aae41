package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gym-occupancy-backend/internal/model"
)

// fileStore keeps snapshots as one JSON array in a flat file.
//
// Every Append reads the whole file, appends, prunes and rewrites it through a
// temporary file and rename. The mutex serializes writers inside this process
// only; two processes sharing the file can still lose an update.
type fileStore struct {
	path      string
	retention time.Duration
	mu        sync.Mutex
}

// NewFileStore creates a JSON-file backed snapshot store, creating the
// parent directory if needed.
func NewFileStore(path string, retention time.Duration) (SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &fileStore{path: path, retention: retention}, nil
}

func (s *fileStore) Append(ctx context.Context, snapshot model.CapacitySnapshot, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return err
	}
	snapshots = append(snapshots, snapshot)
	return s.save(keep(snapshots, now.Add(-s.retention)))
}

func (s *fileStore) List(ctx context.Context) ([]model.CapacitySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *fileStore) Range(ctx context.Context, from, to time.Time) ([]model.CapacitySnapshot, error) {
	snapshots, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return inRange(snapshots, from, to), nil
}

// load treats a missing file as an empty history. A corrupt file is an error
// so that Append never overwrites it.
func (s *fileStore) load() ([]model.CapacitySnapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.CapacitySnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	snapshots := []model.CapacitySnapshot{}
	if len(data) == 0 {
		return snapshots, nil
	}
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode snapshots from %s: %w", s.path, err)
	}
	return snapshots, nil
}

func (s *fileStore) save(snapshots []model.CapacitySnapshot) error {
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshots-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}
