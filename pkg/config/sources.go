package config

import (
	"fmt"
	"os"
	"strings"

	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix is the prefix recognized on configuration environment variables.
const envPrefix = "SASTMON_"

// ConfigSource is one layer in the configuration precedence chain.
type ConfigSource interface {
	// Name identifies the source in error messages.
	Name() string

	// Priority orders loading; higher priority sources override lower.
	Priority() int

	// Load merges the source's values into the koanf instance.
	Load(k *koanf.Koanf) error
}

// DefaultSources returns the standard source chain: defaults, optional YAML
// file, SASTMON_ environment variables, then command-line flags.
func DefaultSources(customConfigFilePath string, flags *pflag.FlagSet) []ConfigSource {
	sources := []ConfigSource{
		defaultsSource{},
		fileSource{path: customConfigFilePath},
		envSource{},
	}
	if flags != nil {
		sources = append(sources, flagSource{flags: flags})
	}
	return sources
}

type defaultsSource struct{}

func (defaultsSource) Name() string  { return "defaults" }
func (defaultsSource) Priority() int { return 0 }

func (defaultsSource) Load(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil)
}

type fileSource struct {
	path string
}

func (s fileSource) Name() string  { return "file" }
func (s fileSource) Priority() int { return 10 }

// Load reads the YAML config file. An explicitly requested file must exist;
// the absence of a file is fine when none was requested.
func (s fileSource) Load(k *koanf.Koanf) error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("config file %s: %w", s.path, err)
	}
	return k.Load(file.Provider(s.path), yamlparser.Parser())
}

type envSource struct{}

func (envSource) Name() string  { return "env" }
func (envSource) Priority() int { return 20 }

// envKeyOverrides maps variables whose config keys themselves contain
// underscores, which the naive underscore-to-dot transform would mangle.
var envKeyOverrides = map[string]string{
	"SASTMON_STORAGE_WORKSPACE_ROOT": "storage.workspace_root",
	"SASTMON_MEASURE_CONFIG_DIR":     "measure.config_dir",
}

func (envSource) Load(k *koanf.Koanf) error {
	return k.Load(env.Provider(envPrefix, ".", func(s string) string {
		if key, ok := envKeyOverrides[s]; ok {
			return key
		}
		// SASTMON_LOG_LEVEL -> log.level
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
}

type flagSource struct {
	flags *pflag.FlagSet
}

func (flagSource) Name() string  { return "flags" }
func (flagSource) Priority() int { return 30 }

func (s flagSource) Load(k *koanf.Koanf) error {
	return k.Load(posflag.Provider(s.flags, ".", k), nil)
}
