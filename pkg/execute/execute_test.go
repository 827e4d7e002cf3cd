package execute

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unit.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunCapture(t *testing.T) {
	t.Parallel()
	out, err := Run(context.Background(), Options{
		Command: "/bin/sh",
		Args:    []string{"-c", "echo hello"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(out))
}

func TestRunNoCaptureDiscardsOutput(t *testing.T) {
	t.Parallel()
	out, err := Run(context.Background(), Options{
		Command: "/bin/sh",
		Args:    []string{"-c", "echo hello"},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunFailureReturnsOutput(t *testing.T) {
	t.Parallel()
	out, err := Run(context.Background(), Options{
		Command: "/bin/sh",
		Args:    []string{"-c", "echo broken; exit 3"},
		Capture: true,
	})
	require.Error(t, err)
	assert.Contains(t, out, "broken")
}

func TestRunDryRunSkipsExecution(t *testing.T) {
	t.Parallel()
	marker := filepath.Join(t.TempDir(), "marker")
	_, err := Run(context.Background(), Options{
		Command: "/bin/sh",
		Args:    []string{"-c", "touch " + marker},
		DryRun:  true,
	})
	require.NoError(t, err)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "dry run must not execute the command")
}

func TestRunLoggedSuccess(t *testing.T) {
	t.Parallel()
	script := writeScript(t, "echo step output")

	var buf bytes.Buffer
	res, err := RunLogged(context.Background(), script, "", &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, buf.String(), "step output")
	assert.GreaterOrEqual(t, res.Elapsed, time.Duration(0))
}

func TestRunLoggedNonzeroExitIsNotAnError(t *testing.T) {
	t.Parallel()
	script := writeScript(t, "echo oops >&2; exit 7")

	var buf bytes.Buffer
	res, err := RunLogged(context.Background(), script, "", &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, res.ExitCode)
	assert.Contains(t, buf.String(), "oops")
}

func TestRunLoggedLaunchFailure(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	_, err := RunLogged(context.Background(), filepath.Join(t.TempDir(), "nope"), "", &buf, 0)
	require.Error(t, err)
}

func TestRunLoggedTimeout(t *testing.T) {
	t.Parallel()
	script := writeScript(t, "sleep 5")

	var buf bytes.Buffer
	_, err := RunLogged(context.Background(), script, "", &buf, 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
