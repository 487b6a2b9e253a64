package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"
)

// LocalStore implements Store using file-based storage.
//
// Storage layout:
//
//	{workspace}/
//	  measurements/
//	    {run-id}/
//	      metadata.json
//	      samples.csv
//	      scanner-output.txt
//
// Thread-safety: metadata writes are protected by per-run file locks so
// parallel tool invocations sharing a workspace never interleave writes.
type LocalStore struct {
	cfg    *Config
	root   string
	mu     sync.RWMutex
	closed bool
}

const (
	measurementsDir  = "measurements"
	metadataFileName = "metadata.json"
	lockFileName     = ".lock"
)

// NewLocalStore creates a new file-based run history store.
func NewLocalStore(cfg *Config) (*LocalStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &LocalStore{
		cfg:  cfg,
		root: filepath.Join(cfg.WorkspaceRoot, measurementsDir),
	}, nil
}

// Initialize prepares the workspace directory structure.
func (s *LocalStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.root, err)
	}
	return nil
}

// Save writes a run's metadata under a file lock.
func (s *LocalStore) Save(ctx context.Context, meta *RunMetadata) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if meta == nil || meta.ID == "" {
		return fmt.Errorf("run metadata must carry an ID")
	}

	dir := s.runDir(meta.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFileName), data, 0o644); err != nil {
		return fmt.Errorf("write run metadata: %w", err)
	}
	return nil
}

// Get loads one run's metadata by ID.
func (s *LocalStore) Get(ctx context.Context, id string) (*RunMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(filepath.Join(s.runDir(id), metadataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("read run metadata: %w", err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse run metadata: %w", err)
	}
	return &meta, nil
}

// List returns all archived runs sorted newest first.
func (s *LocalStore) List(ctx context.Context) ([]*RunMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read measurements directory: %w", err)
	}

	runs := make([]*RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, entry.Name(), metadataFileName))
		if err != nil {
			// Partially written or foreign directories are skipped.
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, &meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// SaveArtifact stores a named artifact file for a run.
func (s *LocalStore) SaveArtifact(ctx context.Context, id, name string, data []byte) error {
	path, err := s.ArtifactPath(id, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

// ArtifactPath returns the on-disk destination for a run artifact, creating
// the run directory if needed.
func (s *LocalStore) ArtifactPath(id, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}

	dir := s.runDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// Prune removes the oldest runs beyond keep and returns how many were removed.
func (s *LocalStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	runs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	removed := 0
	for _, meta := range runs[keep:] {
		if err := os.RemoveAll(s.runDir(meta.ID)); err != nil {
			return removed, fmt.Errorf("remove run %s: %w", meta.ID, err)
		}
		removed++
	}
	return removed, nil
}

// Close marks the store closed. Further operations return ErrClosed.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *LocalStore) runDir(id string) string {
	return filepath.Join(s.root, id)
}
