package scanner

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Options adjust command construction. The zero value uses the embedded
// configs and the bare scanner executable names resolved via PATH.
type Options struct {
	// BanditPath and SemgrepPath override the scanner executables.
	BanditPath  string
	SemgrepPath string

	// ConfigDir, when set, supplies bundled config files from disk instead
	// of the embedded copies.
	ConfigDir string

	// ExtractDir receives embedded config files that must exist on disk
	// for the scanner to read. Callers that want deterministic cleanup
	// should pass a directory they remove themselves.
	ExtractDir string
}

func (o Options) executable(tool Tool) string {
	switch tool {
	case ToolBandit:
		if o.BanditPath != "" {
			return o.BanditPath
		}
	case ToolSemgrep:
		if o.SemgrepPath != "" {
			return o.SemgrepPath
		}
	}
	return string(tool)
}

// Build produces the scanner invocation for a request.
//
// The target path is always passed as an absolute path so the scanner's
// working directory cannot change what gets scanned. The result is a flat
// argument list end to end; nothing here ever produces a shell string.
func Build(req Request, opts Options) (Command, error) {
	ref, err := LookupReference(req.Tool, req.ConfigLevel)
	if err != nil {
		return Command{}, err
	}

	repoAbs, err := filepath.Abs(req.RepoPath)
	if err != nil {
		return Command{}, fmt.Errorf("resolve repo path: %w", err)
	}

	logger := log.With().
		Str("component", "scanner").
		Str("tool", string(req.Tool)).
		Str("config_level", string(req.ConfigLevel)).
		Logger()

	switch req.Tool {
	case ToolBandit:
		configPath, err := materializeConfig(ref.Name, opts.ConfigDir, opts.ExtractDir)
		if err != nil {
			return Command{}, err
		}
		logger.Debug().Str("config", configPath).Msg("resolved bandit config")
		return Command{Args: []string{opts.executable(ToolBandit), "-c", configPath, "-r", repoAbs}}, nil

	case ToolSemgrep:
		configRef := ref.Name
		if ref.Kind == RefBundledFile {
			configPath, err := materializeConfig(ref.Name, opts.ConfigDir, opts.ExtractDir)
			if err != nil {
				return Command{}, err
			}
			configRef = configPath
			logger.Debug().Str("config", configPath).Msg("resolved semgrep config")
		} else {
			// Registry identifiers (p/bandit) pass through untouched;
			// resolution is the scanner's job.
			logger.Debug().Str("config", configRef).Msg("using semgrep registry config")
		}
		return Command{Args: []string{opts.executable(ToolSemgrep), "scan", repoAbs, "--verbose", "--config=" + configRef}}, nil

	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnsupportedSelection, req.Tool)
	}
}
