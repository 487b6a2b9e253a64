package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTool(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tool
		wantErr bool
	}{
		{name: "bandit", input: "bandit", want: ToolBandit},
		{name: "semgrep", input: "semgrep", want: ToolSemgrep},
		{name: "mixed case", input: "Bandit", want: ToolBandit},
		{name: "upper case", input: "SEMGREP", want: ToolSemgrep},
		{name: "unknown tool", input: "pylint", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTool(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrUnsupportedSelection)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseConfigLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ConfigLevel
		wantErr bool
	}{
		{name: "strict", input: "strict", want: LevelStrict},
		{name: "loose", input: "loose", want: LevelLoose},
		{name: "mixed case", input: "Strict", want: LevelStrict},
		{name: "unknown level", input: "paranoid", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrUnsupportedSelection)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCommandExecutable(t *testing.T) {
	require.Equal(t, "bandit", Command{Args: []string{"bandit", "-r", "/repo"}}.Executable())
	require.Equal(t, "", Command{}.Executable())
}

func TestCommandString(t *testing.T) {
	cmd := Command{Args: []string{"semgrep", "scan", "/repo", "--verbose"}}
	require.Equal(t, "semgrep scan /repo --verbose", cmd.String())
}
