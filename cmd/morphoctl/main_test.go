package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errw bytes.Buffer
	root := newRootCmd(&out, &errw)
	root.SetArgs(append([]string{"--store", "memory"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestKindsCommand(t *testing.T) {
	out, err := execute(t, "kinds")
	require.NoError(t, err)
	require.Contains(t, out, "fixedCentralized")
	require.Contains(t, out, "snnQuantFuncGrid")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 24)
}

func TestExampleCommand(t *testing.T) {
	out, err := execute(t, "example", "--pipeline", "fixedCentralized<MLP-1-1", "--shape", "worm-3x1", "--sensors", "uniform-t+a")
	require.NoError(t, err)
	require.Equal(t, "pipeline=fixedCentralized<MLP-1-1 genotype=[]float64 length=63\n", out)

	_, err = execute(t, "example", "--pipeline", "fixedCentralized<MLP-1-1")
	require.ErrorContains(t, err, "--shape")

	_, err = execute(t, "example", "--shape", "worm-3x1")
	require.Error(t, err)
}

func TestMapCommand(t *testing.T) {
	out, err := execute(t, "map", "--pipeline", "fixedHomoDist-1<MLP-1-1", "--shape", "biped-4x3", "--count", "3", "--workers", "2", "--minimap")
	require.NoError(t, err)
	require.Contains(t, out, "mapped=3 failed=0")
	require.Contains(t, out, "#2 controller=distributed voxels=10 sensors=40")
	require.Contains(t, out, "4444\n4444\n4..4\n")
}

func TestMapCommandWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline: fixedPhases-1
target:
  name: line
  shape: worm-4x1
  sensors: empty
count: 2
`), 0o644))

	out, err := execute(t, "map", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "target=line genotype_length=4 mapped=2 failed=0")

	out, err = execute(t, "map", "--config", path, "--count", "5")
	require.NoError(t, err)
	require.Contains(t, out, "mapped=5")
}

func TestShowCommand(t *testing.T) {
	out, err := execute(t, "show", "--pipeline", "fixedPhases-1", "--shape", "worm-3x1", "--steps", "2", "--color=false")
	require.NoError(t, err)
	require.Contains(t, out, "worm-3x1 (phase-sin) 3x1[3]\n")
	require.Contains(t, out, "t=0.10\n")
	require.Contains(t, out, "t=0.20\n")
}

func TestTargetsCommands(t *testing.T) {
	out, err := execute(t, "targets", "add", "walker", "--shape", "biped-4x3")
	require.NoError(t, err)
	require.Equal(t, "stored target=walker\n", out)

	out, err = execute(t, "targets")
	require.NoError(t, err)
	require.Empty(t, out, "memory store does not outlive a command")

	_, err = execute(t, "targets", "show", "walker")
	require.ErrorContains(t, err, "target not found")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "targets")
	require.ErrorContains(t, err, "invalid log level")
}

func TestRunsAndPhenotypesOnEmptyStore(t *testing.T) {
	out, err := execute(t, "runs")
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = execute(t, "phenotypes", "--latest")
	require.ErrorContains(t, err, "run not found")
}

func TestExportCommandNeedsRun(t *testing.T) {
	_, err := execute(t, "export", "--latest", "--out", t.TempDir())
	require.ErrorContains(t, err, "run not found")

	_, err = execute(t, "export", "--out", t.TempDir())
	require.ErrorContains(t, err, "run id is required")
}

func TestTargetsExportRoundTripsThroughTargetFile(t *testing.T) {
	out, err := execute(t, "targets", "export", "--shape", "biped-4x3")
	require.NoError(t, err)
	require.Contains(t, out, `"kind":"target"`)
	require.Contains(t, out, `"schema_version":1`)

	path := filepath.Join(t.TempDir(), "biped.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	out, err = execute(t, "map", "--pipeline", "fixedHomoDist-1<MLP-1-1", "--target-file", path, "--count", "2", "--minimap")
	require.NoError(t, err)
	require.Contains(t, out, "mapped=2 failed=0")
	require.Contains(t, out, "#1 controller=distributed voxels=10 sensors=40")
	require.Contains(t, out, "4444\n4444\n4..4\n")

	_, err = execute(t, "targets", "export", "missing")
	require.ErrorContains(t, err, "target not found")
}
