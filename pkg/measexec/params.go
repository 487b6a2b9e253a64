package measexec

import (
	"github.com/yulinchen03/SAST-energy-monitor/pkg/measure"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// Params defines the input required to initiate a measurement run.
type Params struct {
	// EnergiBridgePath locates the energy-measurement executable.
	EnergiBridgePath string

	// RepoPath is the repository to scan.
	RepoPath string

	// Tool and ConfigLevel select the scanner invocation.
	Tool        scanner.Tool
	ConfigLevel scanner.ConfigLevel

	// OutputFormat is the rendering format (text, json, yaml).
	OutputFormat string

	// SamplesOut, when set, receives a copy of the periodic samples CSV
	// at an explicit path, taking precedence over run-history archival.
	SamplesOut string

	// ConfigDir supplies bundled scanner configs from disk instead of the
	// embedded copies.
	ConfigDir string

	// BanditPath and SemgrepPath override the scanner executables.
	BanditPath  string
	SemgrepPath string
}

// Result is the structured outcome of one measurement run.
type Result struct {
	RunID          string
	StartTime      string
	EndTime        string
	Classification measure.Classification
	ExitCode       int
	EnergyJoules   float64
	EnergyMeasured bool
	Stdout         string
	Stderr         string
}
