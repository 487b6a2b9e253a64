package scanner

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Bundled configuration files shipped inside the binary. go:embed skips
// dotfiles under directory patterns, so the bandit configs are named
// explicitly.
//
//go:embed configs/.bandit configs/.bandit_basic configs/semgrep.yml
var bundledConfigs embed.FS

const bundledConfigDir = "configs"

// RefKind distinguishes the two ways a configuration can be referenced.
type RefKind int

const (
	// RefBundledFile references a configuration file shipped with the
	// binary and materialized on disk before the scanner runs.
	RefBundledFile RefKind = iota

	// RefRegistry references an identifier resolved by the scanner's own
	// rule registry. It is passed through verbatim and never validated
	// locally.
	RefRegistry
)

// ConfigReference is the resolved configuration selector for one catalog
// entry: either a bundled file name or an opaque registry identifier.
type ConfigReference struct {
	Kind RefKind
	Name string
}

type selection struct {
	tool  Tool
	level ConfigLevel
}

// catalog is the fixed lookup table. Every supported (tool, level) pair maps
// to exactly one reference; there are no other entries.
var catalog = map[selection]ConfigReference{
	{ToolBandit, LevelStrict}:  {Kind: RefBundledFile, Name: ".bandit"},
	{ToolBandit, LevelLoose}:   {Kind: RefBundledFile, Name: ".bandit_basic"},
	{ToolSemgrep, LevelStrict}: {Kind: RefRegistry, Name: "p/bandit"},
	{ToolSemgrep, LevelLoose}:  {Kind: RefBundledFile, Name: "semgrep.yml"},
}

// LookupReference resolves the configuration reference for a selection.
func LookupReference(tool Tool, level ConfigLevel) (ConfigReference, error) {
	ref, ok := catalog[selection{tool: tool, level: level}]
	if !ok {
		return ConfigReference{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedSelection, tool, level)
	}
	return ref, nil
}

// CatalogEntry is one row of the supported selection matrix.
type CatalogEntry struct {
	Tool      Tool
	Level     ConfigLevel
	Reference ConfigReference
}

// Catalog returns the supported selections in a stable order, for listing.
func Catalog() []CatalogEntry {
	order := []selection{
		{ToolBandit, LevelStrict},
		{ToolBandit, LevelLoose},
		{ToolSemgrep, LevelStrict},
		{ToolSemgrep, LevelLoose},
	}
	entries := make([]CatalogEntry, 0, len(order))
	for _, sel := range order {
		entries = append(entries, CatalogEntry{
			Tool:      sel.tool,
			Level:     sel.level,
			Reference: catalog[sel],
		})
	}
	return entries
}

// materializeConfig returns an absolute filesystem path for a bundled config
// file. When overrideDir is set the file is expected there on disk; otherwise
// the embedded copy is extracted into extractDir (a fresh temp directory when
// extractDir is empty, in which case the caller owns its lifetime).
func materializeConfig(name, overrideDir, extractDir string) (string, error) {
	if overrideDir != "" {
		path := filepath.Join(overrideDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %q in %s", ErrConfigNotFound, name, overrideDir)
		}
		return filepath.Abs(path)
	}

	data, err := fs.ReadFile(bundledConfigs, bundledConfigDir+"/"+name)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not embedded in this build", ErrConfigNotFound, name)
	}

	if extractDir == "" {
		extractDir, err = os.MkdirTemp("", "sastmon-configs-")
		if err != nil {
			return "", fmt.Errorf("create config extraction dir: %w", err)
		}
	}

	path := filepath.Join(extractDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("extract bundled config %q: %w", name, err)
	}
	return filepath.Abs(path)
}
