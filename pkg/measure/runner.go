// Package measure wraps a scanner invocation with the EnergiBridge
// measurement executable, runs the combined child process, and classifies
// the outcome.
package measure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// RunSpec describes one measured scanner execution.
type RunSpec struct {
	// EnergiBridgePath is the measurement executable.
	EnergiBridgePath string

	// Scan is the scanner invocation to wrap.
	Scan scanner.Command

	// Tool selects the exit-code classification table.
	Tool scanner.Tool

	// SamplesDest, when set, receives a copy of the periodic samples CSV
	// before the temporary file is removed.
	SamplesDest string
}

// Result captures one measured run.
type Result struct {
	ExitCode       int
	Stdout         string
	Stderr         string
	Classification Classification
}

// processRunner executes a prepared command and reports its numeric exit
// code. Launch failures are returned as errors; a nonzero exit from a process
// that did run is not an error. The seam exists so exit-code handling can be
// tested without spawning scanner processes.
type processRunner interface {
	Run(cmd *exec.Cmd) (int, error)
}

type execProcessRunner struct{}

func (execProcessRunner) Run(cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// Runner executes scanner commands under EnergiBridge.
type Runner struct {
	proc processRunner
}

// NewRunner builds a Runner that spawns real child processes.
func NewRunner() *Runner {
	return &Runner{proc: execProcessRunner{}}
}

// Run executes the wrapped scanner as a single child process.
//
// A unique temporary CSV file receives EnergiBridge's periodic samples; it is
// removed on every exit path. The final argument list is built by list
// concatenation only, with no shell interpretation anywhere. Stdout and
// stderr are captured separately, and the exit code is classified per tool.
//
// The child blocks until it exits; there is no timeout. Callers that need
// cancellation can arrange it through ctx.
func (r *Runner) Run(ctx context.Context, spec RunSpec) (Result, error) {
	samples, err := os.CreateTemp("", "energibridge-*.csv")
	if err != nil {
		return Result{}, fmt.Errorf("allocate samples file: %w", err)
	}
	samplesPath := samples.Name()
	// EnergiBridge opens the file itself; only the unique name is needed.
	_ = samples.Close()
	defer r.releaseSamples(samplesPath, spec.SamplesDest)

	args := make([]string, 0, 4+len(spec.Scan.Args))
	args = append(args, spec.EnergiBridgePath, "-o", samplesPath, "--summary")
	args = append(args, spec.Scan.Args...)

	logger := log.With().
		Str("component", "measure").
		Str("tool", string(spec.Tool)).
		Logger()
	logger.Debug().Strs("argv", args).Str("samples", samplesPath).Msg("starting measured run")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode, runErr := r.proc.Run(cmd)
	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrExecutableNotFound, args[0])
		}
		return Result{}, fmt.Errorf("%w: %v", ErrExecutionError, runErr)
	}

	result := Result{
		ExitCode:       exitCode,
		Stdout:         stdout.String(),
		Stderr:         stderr.String(),
		Classification: Classify(spec.Tool, exitCode),
	}
	logger.Debug().
		Int("exit_code", result.ExitCode).
		Str("classification", string(result.Classification)).
		Msg("measured run finished")
	return result, nil
}

// releaseSamples archives the samples file when requested, then removes it.
// Archival failure degrades to a warning; removal is unconditional.
func (r *Runner) releaseSamples(samplesPath, dest string) {
	if dest != "" {
		if err := copyFile(samplesPath, dest); err != nil {
			log.Warn().Str("component", "measure").Err(err).Msg("failed to archive samples file")
		}
	}
	if err := os.Remove(samplesPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("component", "measure").Err(err).Msg("failed to remove samples file")
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
