// Package measexec orchestrates one measurement run: build the scanner
// command, execute it under EnergiBridge, classify the outcome, and
// optionally archive the run.
package measexec

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/measure"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/storage"
)

// measurementRunner executes a built scanner command under the measurement
// wrapper. Satisfied by *measure.Runner; replaced in tests.
type measurementRunner interface {
	Run(ctx context.Context, spec measure.RunSpec) (measure.Result, error)
}

// ProgressSink receives phase notifications during a run.
type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ProgressEvent describes one pipeline phase transition.
type ProgressEvent struct {
	Phase     string
	Status    string
	Message   string
	Timestamp time.Time
}

// Service orchestrates measurement execution.
type Service struct {
	runner       measurementRunner
	progressSink ProgressSink
	store        storage.Store
}

// NewService builds a Service with default dependencies.
func NewService() *Service {
	return &Service{
		runner: measure.NewRunner(),
	}
}

// WithProgressSink attaches a sink to receive progress notifications.
func (s *Service) WithProgressSink(sink ProgressSink) *Service {
	s.progressSink = sink
	return s
}

// WithStore attaches a run-history store for archival.
func (s *Service) WithStore(store storage.Store) *Service {
	s.store = store
	return s
}

// withRunner overrides the measurement runner (useful for tests).
func (s *Service) withRunner(r measurementRunner) *Service {
	s.runner = r
	return s
}

// Run executes the full pipeline for one measurement request.
//
// Setup errors (missing executables, bad repo path, unsupported selection)
// are detected and returned before any child process launches. There is no
// retry: every error is terminal for the run.
func (s *Service) Run(ctx context.Context, params Params) (*Result, error) {
	if err := validateSetup(params); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	startTime := time.Now()
	logger := log.With().
		Str("component", "measexec").
		Str("run_id", runID).
		Str("tool", string(params.Tool)).
		Str("config_level", string(params.ConfigLevel)).
		Logger()

	// Bundled configs extracted for this run live exactly as long as it.
	extractDir, err := os.MkdirTemp("", "sastmon-run-")
	if err != nil {
		return nil, fmt.Errorf("create run workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(extractDir); err != nil {
			logger.Warn().Err(err).Msg("failed to remove run workspace")
		}
	}()

	s.emit("build", "start", "")
	scanCmd, err := scanner.Build(scanner.Request{
		Tool:        params.Tool,
		ConfigLevel: params.ConfigLevel,
		RepoPath:    params.RepoPath,
	}, scanner.Options{
		BanditPath:  params.BanditPath,
		SemgrepPath: params.SemgrepPath,
		ConfigDir:   params.ConfigDir,
		ExtractDir:  extractDir,
	})
	if err != nil {
		s.emit("build", "failed", err.Error())
		return nil, fmt.Errorf("build scan command: %w", err)
	}
	s.emit("build", "completed", scanCmd.String())
	logger.Info().Str("scan_command", scanCmd.String()).Msg("scan command built")

	spec := measure.RunSpec{
		EnergiBridgePath: params.EnergiBridgePath,
		Scan:             scanCmd,
		Tool:             params.Tool,
		SamplesDest:      s.samplesDest(runID, params, logger),
	}

	s.emit("run", "start", "")
	runRes, runErr := s.runner.Run(ctx, spec)
	endTime := time.Now()
	if runErr != nil {
		s.emit("run", "failed", runErr.Error())
		s.persistFailure(ctx, runID, params, startTime, endTime, runErr)
		return nil, runErr
	}
	s.emit("run", string(runRes.Classification), "")

	joules, measured := measure.ExtractJoules(runRes.Stdout)
	if !measured {
		joules, measured = measure.ExtractJoules(runRes.Stderr)
	}

	result := &Result{
		RunID:          runID,
		StartTime:      startTime.Format(time.RFC3339),
		EndTime:        endTime.Format(time.RFC3339),
		Classification: runRes.Classification,
		ExitCode:       runRes.ExitCode,
		EnergyJoules:   joules,
		EnergyMeasured: measured,
		Stdout:         runRes.Stdout,
		Stderr:         runRes.Stderr,
	}

	s.persistResult(ctx, result, params, startTime, endTime)

	logger.Info().
		Int("exit_code", result.ExitCode).
		Str("classification", string(result.Classification)).
		Bool("energy_measured", result.EnergyMeasured).
		Msg("measurement run finished")
	return result, nil
}

// validateSetup rejects bad inputs before anything is launched.
func validateSetup(params Params) error {
	if _, err := scanner.LookupReference(params.Tool, params.ConfigLevel); err != nil {
		return err
	}

	info, err := os.Stat(params.EnergiBridgePath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: energibridge executable at %q", measure.ErrExecutableNotFound, params.EnergiBridgePath)
	}

	repoInfo, err := os.Stat(params.RepoPath)
	if err != nil || !repoInfo.IsDir() {
		return fmt.Errorf("%w: %q", ErrRepoNotFound, params.RepoPath)
	}
	return nil
}

// samplesDest picks where the periodic samples CSV is archived: an explicit
// --samples-out path wins, then the run-history store, else nowhere.
func (s *Service) samplesDest(runID string, params Params, logger zerolog.Logger) string {
	if params.SamplesOut != "" {
		return params.SamplesOut
	}
	if s.store == nil {
		return ""
	}
	dest, err := s.store.ArtifactPath(runID, "samples.csv")
	if err != nil {
		logger.Warn().Err(err).Msg("failed to allocate samples artifact, samples will not be archived")
		return ""
	}
	return dest
}

func (s *Service) persistResult(ctx context.Context, result *Result, params Params, startTime, endTime time.Time) {
	if s.store == nil {
		return
	}

	meta := &storage.RunMetadata{
		ID:              result.RunID,
		Tool:            string(params.Tool),
		ConfigLevel:     string(params.ConfigLevel),
		RepoPath:        params.RepoPath,
		Classification:  string(result.Classification),
		ExitCode:        result.ExitCode,
		EnergyJoules:    result.EnergyJoules,
		EnergyMeasured:  result.EnergyMeasured,
		StartedAt:       startTime.UTC(),
		CompletedAt:     endTime.UTC(),
		DurationSeconds: endTime.Sub(startTime).Seconds(),
	}
	if err := s.store.Save(ctx, meta); err != nil {
		log.Warn().Str("component", "measexec").Str("run_id", result.RunID).Err(err).
			Msg("failed to archive run metadata, continuing without persistence")
		return
	}

	outputText := result.Stdout
	if result.Stderr != "" {
		outputText += "\n--- stderr ---\n" + result.Stderr
	}
	if err := s.store.SaveArtifact(ctx, result.RunID, "scanner-output.txt", []byte(outputText)); err != nil {
		log.Warn().Str("component", "measexec").Str("run_id", result.RunID).Err(err).
			Msg("failed to archive scanner output")
	}
}

func (s *Service) persistFailure(ctx context.Context, runID string, params Params, startTime, endTime time.Time, runErr error) {
	if s.store == nil {
		return
	}

	meta := &storage.RunMetadata{
		ID:              runID,
		Tool:            string(params.Tool),
		ConfigLevel:     string(params.ConfigLevel),
		RepoPath:        params.RepoPath,
		Classification:  string(measure.UnexpectedFailure),
		StartedAt:       startTime.UTC(),
		CompletedAt:     endTime.UTC(),
		DurationSeconds: endTime.Sub(startTime).Seconds(),
		ErrorMessage:    runErr.Error(),
	}
	if err := s.store.Save(ctx, meta); err != nil {
		log.Warn().Str("component", "measexec").Str("run_id", runID).Err(err).
			Msg("failed to archive failed run metadata")
	}
}

func (s *Service) emit(phase, status, msg string) {
	if s.progressSink == nil {
		return
	}
	s.progressSink.OnEvent(ProgressEvent{
		Phase:     phase,
		Status:    status,
		Message:   msg,
		Timestamp: time.Now(),
	})
}
