// Package scanner builds invocations for the supported external
// static-analysis scanners from a (tool, config level) selection.
package scanner

import (
	"fmt"
	"strings"
)

// Tool identifies one of the supported external scanners.
type Tool string

const (
	// ToolBandit is the Python security linter.
	ToolBandit Tool = "bandit"

	// ToolSemgrep is the pattern-matching scanner.
	ToolSemgrep Tool = "semgrep"
)

// ParseTool converts a user-supplied string into a Tool.
func ParseTool(s string) (Tool, error) {
	switch Tool(strings.ToLower(s)) {
	case ToolBandit:
		return ToolBandit, nil
	case ToolSemgrep:
		return ToolSemgrep, nil
	default:
		return "", fmt.Errorf("%w: unknown tool %q (use %q or %q)", ErrUnsupportedSelection, s, ToolBandit, ToolSemgrep)
	}
}

// ConfigLevel selects which ruleset a scanner uses.
type ConfigLevel string

const (
	LevelStrict ConfigLevel = "strict"
	LevelLoose  ConfigLevel = "loose"
)

// ParseConfigLevel converts a user-supplied string into a ConfigLevel.
func ParseConfigLevel(s string) (ConfigLevel, error) {
	switch ConfigLevel(strings.ToLower(s)) {
	case LevelStrict:
		return LevelStrict, nil
	case LevelLoose:
		return LevelLoose, nil
	default:
		return "", fmt.Errorf("%w: unknown config level %q (use %q or %q)", ErrUnsupportedSelection, s, LevelStrict, LevelLoose)
	}
}

// Request describes a single scan to build. It is constructed once from user
// input and consumed once.
type Request struct {
	Tool        Tool
	ConfigLevel ConfigLevel
	RepoPath    string
}

// Command is a scanner invocation as a flat argument list. It is built once
// per request and never mutated. No shell is involved at any point, so
// metacharacters in user-supplied or config-derived paths carry no meaning.
type Command struct {
	Args []string
}

// Executable returns the program the command will run.
func (c Command) Executable() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the argument list for logs. The rendered form is never
// executed or re-split.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}
