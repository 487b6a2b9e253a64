// Package storage persists measurement run history to the local workspace.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunMetadata contains metadata about one measured scanner run.
//
// Stored as metadata.json next to the run's archived artifacts
// (samples.csv, scanner-output.txt).
type RunMetadata struct {
	// ID is the unique identifier for the run (UUID v4).
	ID string `json:"id"`

	// Tool is the scanner that was measured ("bandit", "semgrep").
	Tool string `json:"tool"`

	// ConfigLevel is the ruleset selection ("strict", "loose").
	ConfigLevel string `json:"config_level"`

	// RepoPath is the absolute path of the scanned repository.
	RepoPath string `json:"repo_path"`

	// Classification is the run outcome: "success", "findings-detected",
	// "tool-error", "unexpected-failure".
	Classification string `json:"classification"`

	// ExitCode is the wrapped process's exit code.
	ExitCode int `json:"exit_code"`

	// EnergyJoules is the measured consumption parsed from the summary
	// line. Only meaningful when EnergyMeasured is true.
	EnergyJoules float64 `json:"energy_joules,omitempty"`

	// EnergyMeasured reports whether a parseable summary line was found.
	EnergyMeasured bool `json:"energy_measured"`

	// StartedAt is when the run started (UTC).
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run finished (UTC).
	CompletedAt time.Time `json:"completed_at,omitzero"`

	// DurationSeconds is the wall-clock duration of the wrapped process.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`

	// ErrorMessage contains launch/setup error details, if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// Store is the persistence port for run history. The service layer treats
// storage as optional: a nil Store disables archival entirely.
type Store interface {
	// Initialize prepares the workspace directory structure.
	Initialize(ctx context.Context) error

	// Save writes (or overwrites) a run's metadata.
	Save(ctx context.Context, meta *RunMetadata) error

	// Get loads one run's metadata by ID.
	Get(ctx context.Context, id string) (*RunMetadata, error)

	// List returns all archived runs, newest first.
	List(ctx context.Context) ([]*RunMetadata, error)

	// SaveArtifact stores a named artifact file for a run.
	SaveArtifact(ctx context.Context, id, name string, data []byte) error

	// ArtifactPath returns the on-disk destination for a run artifact.
	// The run directory is created if needed.
	ArtifactPath(id, name string) (string, error)

	// Prune removes the oldest runs beyond keep.
	Prune(ctx context.Context, keep int) (removed int, err error)

	// Close releases store resources.
	Close() error
}

// ErrRunNotFound is returned by Get for unknown run IDs.
var ErrRunNotFound = errors.New("measurement run not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage is closed")

// Config holds storage configuration.
type Config struct {
	// WorkspaceRoot is the directory holding all archived runs.
	WorkspaceRoot string
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("workspace root must not be empty")
	}
	return nil
}

// DefaultConfig returns the standard workspace location under the user's
// home directory.
func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &Config{WorkspaceRoot: filepath.Join(home, ".sastmon")}, nil
}
