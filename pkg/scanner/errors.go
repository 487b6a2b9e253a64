package scanner

import "errors"

var (
	// ErrUnsupportedSelection is returned when the (tool, config level)
	// pair falls outside the fixed catalog.
	ErrUnsupportedSelection = errors.New("unsupported tool/config-level selection")

	// ErrConfigNotFound is returned when a selection declares a bundled
	// configuration file that cannot be located.
	ErrConfigNotFound = errors.New("bundled configuration file not found")
)
