package measure

import "github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"

// Classification buckets a wrapped scanner run by its exit code.
type Classification string

const (
	// Success means the scanner completed and reported nothing.
	Success Classification = "success"

	// FindingsDetected means the scanner completed normally and reported
	// findings. This is not a failure of the measurement run.
	FindingsDetected Classification = "findings-detected"

	// ToolError means the scanner rejected its configuration or arguments.
	ToolError Classification = "tool-error"

	// UnexpectedFailure covers every other nonzero exit.
	UnexpectedFailure Classification = "unexpected-failure"
)

const (
	exitFindings        = 1
	exitBanditToolError = 2
)

// Classify maps a wrapped process exit code to an outcome. Scanner exit
// codes are overloaded: both tools use 1 for "completed with findings", and
// only bandit reserves 2 for configuration/argument errors. Anything else
// nonzero (including 2 from semgrep) is an unexpected failure.
func Classify(tool scanner.Tool, exitCode int) Classification {
	switch {
	case exitCode == 0:
		return Success
	case exitCode == exitFindings:
		return FindingsDetected
	case exitCode == exitBanditToolError && tool == scanner.ToolBandit:
		return ToolError
	default:
		return UnexpectedFailure
	}
}

// Succeeded reports whether the classification counts as a successful
// measurement. A findings-detected run still produced a valid energy
// measurement, so it succeeds.
func (c Classification) Succeeded() bool {
	return c == Success || c == FindingsDetected
}
