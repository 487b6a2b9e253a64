package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBandit(t *testing.T) {
	repo := t.TempDir()
	extractDir := t.TempDir()

	tests := []struct {
		name       string
		level      ConfigLevel
		configName string
	}{
		{name: "strict profile", level: LevelStrict, configName: ".bandit"},
		{name: "loose profile", level: LevelLoose, configName: ".bandit_basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Build(Request{
				Tool:        ToolBandit,
				ConfigLevel: tt.level,
				RepoPath:    repo,
			}, Options{ExtractDir: extractDir})
			require.NoError(t, err)

			require.Len(t, cmd.Args, 5)
			require.Equal(t, "bandit", cmd.Executable())
			require.Equal(t, "-c", cmd.Args[1])
			require.Equal(t, tt.configName, filepath.Base(cmd.Args[2]))
			require.True(t, filepath.IsAbs(cmd.Args[2]), "config path must be absolute")
			require.Equal(t, "-r", cmd.Args[3])
			require.True(t, filepath.IsAbs(cmd.Args[4]), "repo path must be absolute")
		})
	}
}

func TestBuildSemgrepStrictUsesRegistryRef(t *testing.T) {
	repo := t.TempDir()

	cmd, err := Build(Request{
		Tool:        ToolSemgrep,
		ConfigLevel: LevelStrict,
		RepoPath:    repo,
	}, Options{})
	require.NoError(t, err)

	require.Equal(t, "semgrep", cmd.Executable())
	require.Equal(t, "scan", cmd.Args[1])
	require.True(t, filepath.IsAbs(cmd.Args[2]), "repo path must be absolute")
	require.Equal(t, "--verbose", cmd.Args[3])
	require.Equal(t, "--config=p/bandit", cmd.Args[4], "registry ref must pass through verbatim")
}

func TestBuildSemgrepLooseMaterializesRules(t *testing.T) {
	repo := t.TempDir()
	extractDir := t.TempDir()

	cmd, err := Build(Request{
		Tool:        ToolSemgrep,
		ConfigLevel: LevelLoose,
		RepoPath:    repo,
	}, Options{ExtractDir: extractDir})
	require.NoError(t, err)

	require.Equal(t, "semgrep", cmd.Executable())
	configArg := cmd.Args[4]
	require.Contains(t, configArg, "--config=")
	require.Contains(t, configArg, "semgrep.yml")
}

func TestBuildRelativeRepoPathIsResolved(t *testing.T) {
	cmd, err := Build(Request{
		Tool:        ToolSemgrep,
		ConfigLevel: LevelStrict,
		RepoPath:    "some/relative/repo",
	}, Options{})
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(cmd.Args[2]), "relative repo paths must be resolved")
}

func TestBuildExecutableOverrides(t *testing.T) {
	repo := t.TempDir()
	extractDir := t.TempDir()

	cmd, err := Build(Request{
		Tool:        ToolBandit,
		ConfigLevel: LevelStrict,
		RepoPath:    repo,
	}, Options{BanditPath: "/opt/venv/bin/bandit", ExtractDir: extractDir})
	require.NoError(t, err)
	require.Equal(t, "/opt/venv/bin/bandit", cmd.Executable())

	cmd, err = Build(Request{
		Tool:        ToolSemgrep,
		ConfigLevel: LevelStrict,
		RepoPath:    repo,
	}, Options{SemgrepPath: "/opt/venv/bin/semgrep"})
	require.NoError(t, err)
	require.Equal(t, "/opt/venv/bin/semgrep", cmd.Executable())
}

func TestBuildUnsupportedSelection(t *testing.T) {
	_, err := Build(Request{
		Tool:        Tool("pylint"),
		ConfigLevel: LevelStrict,
		RepoPath:    t.TempDir(),
	}, Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsupportedSelection)
}

func TestBuildMissingOverrideConfig(t *testing.T) {
	_, err := Build(Request{
		Tool:        ToolBandit,
		ConfigLevel: LevelStrict,
		RepoPath:    t.TempDir(),
	}, Options{ConfigDir: t.TempDir()})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConfigNotFound)
}
