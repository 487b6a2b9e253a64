package measure

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// fakeProcessRunner records the command it was asked to run and returns a
// canned outcome, optionally writing to the command's streams and the
// samples file first.
type fakeProcessRunner struct {
	exitCode int
	err      error
	stdout   string
	stderr   string

	gotArgs []string
}

func (f *fakeProcessRunner) Run(cmd *exec.Cmd) (int, error) {
	f.gotArgs = cmd.Args
	if f.stdout != "" {
		_, _ = cmd.Stdout.Write([]byte(f.stdout))
	}
	if f.stderr != "" {
		_, _ = cmd.Stderr.Write([]byte(f.stderr))
	}
	return f.exitCode, f.err
}

func samplesPathFromArgs(t *testing.T, args []string) string {
	t.Helper()
	for i, a := range args {
		if a == "-o" {
			require.Less(t, i+1, len(args), "-o must carry a value")
			return args[i+1]
		}
	}
	t.Fatal("argv is missing the -o samples flag")
	return ""
}

func TestRunnerArgvShape(t *testing.T) {
	proc := &fakeProcessRunner{}
	r := &Runner{proc: proc}

	_, err := r.Run(context.Background(), RunSpec{
		EnergiBridgePath: "/usr/local/bin/energibridge",
		Scan:             scanner.Command{Args: []string{"bandit", "-c", "/cfg/.bandit", "-r", "/repo"}},
		Tool:             scanner.ToolBandit,
	})
	require.NoError(t, err)

	require.Equal(t, "/usr/local/bin/energibridge", proc.gotArgs[0])
	require.Equal(t, "-o", proc.gotArgs[1])
	require.NotEmpty(t, proc.gotArgs[2])
	require.Equal(t, "--summary", proc.gotArgs[3])
	require.Equal(t, []string{"bandit", "-c", "/cfg/.bandit", "-r", "/repo"}, proc.gotArgs[4:],
		"scanner argv must follow the wrapper flags unchanged")
}

func TestRunnerCapturesStreamsAndClassifies(t *testing.T) {
	proc := &fakeProcessRunner{
		exitCode: 1,
		stdout:   "Issue: [B602]\nEnergy consumption in joules: 12.34\n",
		stderr:   "warning: slow rule\n",
	}
	r := &Runner{proc: proc}

	result, err := r.Run(context.Background(), RunSpec{
		EnergiBridgePath: "energibridge",
		Scan:             scanner.Command{Args: []string{"bandit", "-r", "/repo"}},
		Tool:             scanner.ToolBandit,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.ExitCode)
	require.Equal(t, FindingsDetected, result.Classification)
	require.Contains(t, result.Stdout, "Energy consumption in joules: 12.34")
	require.Equal(t, "warning: slow rule\n", result.Stderr)
}

func TestRunnerRemovesSamplesFile(t *testing.T) {
	tests := []struct {
		name string
		proc *fakeProcessRunner
	}{
		{name: "on success", proc: &fakeProcessRunner{exitCode: 0}},
		{name: "on nonzero exit", proc: &fakeProcessRunner{exitCode: 3}},
		{name: "on launch failure", proc: &fakeProcessRunner{err: exec.ErrNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Runner{proc: tt.proc}
			_, _ = r.Run(context.Background(), RunSpec{
				EnergiBridgePath: "energibridge",
				Scan:             scanner.Command{Args: []string{"semgrep", "scan", "/repo"}},
				Tool:             scanner.ToolSemgrep,
			})

			samples := samplesPathFromArgs(t, tt.proc.gotArgs)
			_, statErr := os.Stat(samples)
			require.ErrorIs(t, statErr, os.ErrNotExist, "temp samples file must be removed on every exit path")
		})
	}
}

func TestRunnerArchivesSamples(t *testing.T) {
	proc := &fakeProcessRunner{exitCode: 0}
	r := &Runner{proc: proc}
	dest := filepath.Join(t.TempDir(), "samples.csv")

	// Simulate EnergiBridge writing samples by pre-populating the temp
	// file from inside the fake.
	writing := &writeSamplesRunner{inner: proc, content: "CPU_ENERGY,TIME\n1.5,0\n"}
	r.proc = writing

	_, err := r.Run(context.Background(), RunSpec{
		EnergiBridgePath: "energibridge",
		Scan:             scanner.Command{Args: []string{"bandit", "-r", "/repo"}},
		Tool:             scanner.ToolBandit,
		SamplesDest:      dest,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "CPU_ENERGY,TIME\n1.5,0\n", string(data))

	_, statErr := os.Stat(samplesPathFromArgs(t, proc.gotArgs))
	require.ErrorIs(t, statErr, os.ErrNotExist, "archiving must not leave the temp file behind")
}

// writeSamplesRunner writes canned sample data to the -o path before
// delegating, standing in for EnergiBridge's own file output.
type writeSamplesRunner struct {
	inner   *fakeProcessRunner
	content string
}

func (w *writeSamplesRunner) Run(cmd *exec.Cmd) (int, error) {
	for i, a := range cmd.Args {
		if a == "-o" && i+1 < len(cmd.Args) {
			_ = os.WriteFile(cmd.Args[i+1], []byte(w.content), 0o644)
		}
	}
	return w.inner.Run(cmd)
}

func TestRunnerLaunchErrors(t *testing.T) {
	tests := []struct {
		name    string
		procErr error
		wantErr error
	}{
		{name: "missing executable", procErr: exec.ErrNotFound, wantErr: ErrExecutableNotFound},
		{name: "missing path component", procErr: os.ErrNotExist, wantErr: ErrExecutableNotFound},
		{name: "other launch failure", procErr: os.ErrPermission, wantErr: ErrExecutionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Runner{proc: &fakeProcessRunner{err: tt.procErr}}
			_, err := r.Run(context.Background(), RunSpec{
				EnergiBridgePath: "energibridge",
				Scan:             scanner.Command{Args: []string{"bandit", "-r", "/repo"}},
				Tool:             scanner.ToolBandit,
			})
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecProcessRunnerRealProcess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	proc := execProcessRunner{}

	cmd := exec.Command("sh", "-c", "exit 0")
	code, err := proc.Run(cmd)
	require.NoError(t, err)
	require.Equal(t, 0, code)

	cmd = exec.Command("sh", "-c", "exit 3")
	code, err = proc.Run(cmd)
	require.NoError(t, err, "a nonzero exit from a launched process is not a launch error")
	require.Equal(t, 3, code)

	cmd = exec.Command("/nonexistent/energibridge")
	_, err = proc.Run(cmd)
	require.Error(t, err)
}
