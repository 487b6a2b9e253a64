package measexec

import (
	"errors"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/measure"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// ErrRepoNotFound is returned when the repository path does not exist or is
// not a directory. Detected before any child process launches.
var ErrRepoNotFound = errors.New("repository path not found or not a directory")

// ErrorCode returns a stable machine-readable code for an error, for
// structured output and logs.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, scanner.ErrUnsupportedSelection):
		return "UNSUPPORTED_SELECTION"
	case errors.Is(err, scanner.ErrConfigNotFound):
		return "CONFIG_NOT_FOUND"
	case errors.Is(err, measure.ErrExecutableNotFound):
		return "EXECUTABLE_NOT_FOUND"
	case errors.Is(err, ErrRepoNotFound):
		return "REPO_NOT_FOUND"
	case errors.Is(err, measure.ErrExecutionError):
		return "EXECUTION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
