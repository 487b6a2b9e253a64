package bind

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/config"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/measexec"
	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

func TestBindMeasureOptions(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		cfg     config.Config
		want    measexec.Params
		wantErr bool
		errIs   error
	}{
		{
			name: "all flags set",
			flags: map[string]string{
				"energibridge-path": "/usr/local/bin/energibridge",
				"repo-path":         "/home/dev/project",
				"tool":              "bandit",
				"config-level":      "strict",
				"output":            "json",
				"samples-out":       "/tmp/samples.csv",
			},
			want: measexec.Params{
				EnergiBridgePath: "/usr/local/bin/energibridge",
				RepoPath:         "/home/dev/project",
				Tool:             scanner.ToolBandit,
				ConfigLevel:      scanner.LevelStrict,
				OutputFormat:     "json",
				SamplesOut:       "/tmp/samples.csv",
			},
		},
		{
			name: "semgrep loose with text output",
			flags: map[string]string{
				"energibridge-path": "energibridge",
				"repo-path":         ".",
				"tool":              "semgrep",
				"config-level":      "loose",
			},
			want: measexec.Params{
				EnergiBridgePath: "energibridge",
				RepoPath:         ".",
				Tool:             scanner.ToolSemgrep,
				ConfigLevel:      scanner.LevelLoose,
				OutputFormat:     "text",
			},
		},
		{
			name: "tool name is case insensitive",
			flags: map[string]string{
				"energibridge-path": "energibridge",
				"repo-path":         ".",
				"tool":              "Bandit",
				"config-level":      "STRICT",
			},
			want: measexec.Params{
				EnergiBridgePath: "energibridge",
				RepoPath:         ".",
				Tool:             scanner.ToolBandit,
				ConfigLevel:      scanner.LevelStrict,
				OutputFormat:     "text",
			},
		},
		{
			name: "config merges into params",
			flags: map[string]string{
				"energibridge-path": "energibridge",
				"repo-path":         ".",
				"tool":              "bandit",
				"config-level":      "loose",
			},
			cfg: config.Config{
				Measure: config.MeasureConfig{ConfigDir: "/etc/sastmon/configs"},
				Tools: config.ToolsConfig{
					Bandit:  config.ToolConfig{Path: "/opt/venv/bin/bandit"},
					Semgrep: config.ToolConfig{Path: "/opt/venv/bin/semgrep"},
				},
			},
			want: measexec.Params{
				EnergiBridgePath: "energibridge",
				RepoPath:         ".",
				Tool:             scanner.ToolBandit,
				ConfigLevel:      scanner.LevelLoose,
				OutputFormat:     "text",
				ConfigDir:        "/etc/sastmon/configs",
				BanditPath:       "/opt/venv/bin/bandit",
				SemgrepPath:      "/opt/venv/bin/semgrep",
			},
		},
		{
			name: "unknown tool",
			flags: map[string]string{
				"energibridge-path": "energibridge",
				"repo-path":         ".",
				"tool":              "pylint",
				"config-level":      "strict",
			},
			wantErr: true,
			errIs:   scanner.ErrUnsupportedSelection,
		},
		{
			name: "unknown config level",
			flags: map[string]string{
				"energibridge-path": "energibridge",
				"repo-path":         ".",
				"tool":              "bandit",
				"config-level":      "paranoid",
			},
			wantErr: true,
			errIs:   scanner.ErrUnsupportedSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := setupMeasureCommand(tt.flags)
			got, err := BindMeasureOptions(cmd, tt.cfg)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tt.want.EnergiBridgePath, got.EnergiBridgePath)
			require.Equal(t, tt.want.RepoPath, got.RepoPath)
			require.Equal(t, tt.want.Tool, got.Tool)
			require.Equal(t, tt.want.ConfigLevel, got.ConfigLevel)
			require.Equal(t, tt.want.OutputFormat, got.OutputFormat)
			require.Equal(t, tt.want.SamplesOut, got.SamplesOut)
			require.Equal(t, tt.want.ConfigDir, got.ConfigDir)
			require.Equal(t, tt.want.BanditPath, got.BanditPath)
			require.Equal(t, tt.want.SemgrepPath, got.SemgrepPath)
		})
	}
}

// setupMeasureCommand creates a mock command with measure flags
func setupMeasureCommand(flags map[string]string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("energibridge-path", "", "EnergiBridge executable")
	cmd.Flags().String("repo-path", "", "Repository to scan")
	cmd.Flags().String("tool", "", "Scanner tool")
	cmd.Flags().String("config-level", "", "Ruleset selection")
	cmd.Flags().String("output", "text", "Output format")
	cmd.Flags().String("samples-out", "", "Samples CSV destination")

	for name, value := range flags {
		_ = cmd.Flags().Set(name, value)
	}
	return cmd
}
