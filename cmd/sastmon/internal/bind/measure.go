package bind

import (
	"github.com/spf13/cobra"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/config"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/measexec"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// BindMeasureOptions extracts and validates measure command flags.
//
// This function reads the measure-specific flags from the Cobra command,
// merges in configuration-level overrides, and constructs a validated
// measexec.Params struct for the service layer.
//
// Flags read:
//   - --energibridge-path: Path to the EnergiBridge executable
//   - --repo-path: Path to the repository to scan
//   - --tool: Scanner selection (bandit, semgrep)
//   - --config-level: Ruleset selection (strict, loose)
//   - --output: Output format (text, json, yaml)
//   - --samples-out: Optional explicit destination for the samples CSV
//
// Returns an error when the tool or config level is outside the supported
// set.
func BindMeasureOptions(cmd *cobra.Command, cfg config.Config) (measexec.Params, error) {
	energibridgePath, _ := cmd.Flags().GetString("energibridge-path")
	repoPath, _ := cmd.Flags().GetString("repo-path")
	toolName, _ := cmd.Flags().GetString("tool")
	levelName, _ := cmd.Flags().GetString("config-level")
	outputFormat, _ := cmd.Flags().GetString("output")
	samplesOut, _ := cmd.Flags().GetString("samples-out")

	tool, err := scanner.ParseTool(toolName)
	if err != nil {
		return measexec.Params{}, err
	}
	level, err := scanner.ParseConfigLevel(levelName)
	if err != nil {
		return measexec.Params{}, err
	}

	params := measexec.Params{
		EnergiBridgePath: energibridgePath,
		RepoPath:         repoPath,
		Tool:             tool,
		ConfigLevel:      level,
		OutputFormat:     outputFormat,
		SamplesOut:       samplesOut,
		ConfigDir:        cfg.Measure.ConfigDir,
		BanditPath:       cfg.Tools.Bandit.Path,
		SemgrepPath:      cfg.Tools.Semgrep.Path,
	}

	return params, nil
}
