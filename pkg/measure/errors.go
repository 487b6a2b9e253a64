package measure

import "errors"

var (
	// ErrExecutableNotFound is returned when the measurement executable
	// (or the scanner it wraps) cannot be located for launch.
	ErrExecutableNotFound = errors.New("executable not found")

	// ErrExecutionError is returned for any other launch failure.
	ErrExecutionError = errors.New("measurement execution failed")
)
