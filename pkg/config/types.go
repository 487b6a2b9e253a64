package config

// Config is the root application configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Measure MeasureConfig `koanf:"measure"`
	Tools   ToolsConfig   `koanf:"tools"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is the minimum level emitted (debug, info, warn, error).
	Level string `koanf:"level"`

	// Format selects the log encoding (text, json).
	Format string `koanf:"format"`

	// File is an optional log file path; empty logs to stderr.
	File string `koanf:"file"`
}

// StorageConfig controls run-history archival.
type StorageConfig struct {
	// WorkspaceRoot overrides the default ~/.sastmon workspace.
	WorkspaceRoot string `koanf:"workspace_root"`
}

// MeasureConfig controls measurement runs.
type MeasureConfig struct {
	// ConfigDir supplies bundled scanner configs from disk instead of the
	// embedded copies.
	ConfigDir string `koanf:"config_dir"`
}

// ToolsConfig carries per-scanner overrides.
type ToolsConfig struct {
	Bandit  ToolConfig `koanf:"bandit"`
	Semgrep ToolConfig `koanf:"semgrep"`
}

// ToolConfig overrides how one scanner is invoked.
type ToolConfig struct {
	// Path overrides the executable; empty resolves the bare tool name
	// via PATH.
	Path string `koanf:"path"`
}
