package orchestrator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatElapsed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{400 * time.Millisecond, "00:00:00"},
		{time.Second, "00:00:01"},
		{90 * time.Second, "00:01:30"},
		{3661 * time.Second, "01:01:01"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.in), "FormatElapsed(%s)", tt.in)
	}
}

func sampleReport() *RunReport {
	return &RunReport{
		RunID: "abcd1234",
		Results: []StepResult{
			{
				Unit:     ProvisioningUnit{Name: "unitA", Path: "/x/unitA.sh"},
				Status:   StatusMissing,
				ExitCode: ExitCodeNone,
			},
			{
				Unit:     ProvisioningUnit{Name: "unitB", Path: "/x/unitB.sh"},
				Status:   StatusOK,
				ExitCode: 0,
				Elapsed:  2 * time.Second,
				LogPath:  "/logs/unitB.log",
			},
		},
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, sampleReport().RenderTable(&buf))
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4) // header, separator, two rows

	// MISSING row: placeholders for exit code, elapsed, and log.
	missingRow := lines[2]
	assert.Contains(t, missingRow, "unitA")
	assert.Contains(t, missingRow, "MISSING")
	assert.Equal(t, 3, strings.Count(missingRow, "-"), "expected three placeholder cells")

	okRow := lines[3]
	assert.Contains(t, okRow, "unitB")
	assert.Contains(t, okRow, "OK")
	assert.Contains(t, okRow, "00:00:02")
	assert.Contains(t, okRow, "/logs/unitB.log")

	assert.NotContains(t, out, "Dry run", "non-dry-run reports carry no dry-run notice")
}

func TestRenderTableDeterministic(t *testing.T) {
	t.Parallel()
	render := func() string {
		var buf bytes.Buffer
		require.NoError(t, sampleReport().RenderTable(&buf))
		return buf.String()
	}
	assert.Equal(t, render(), render())
}

func TestRenderTableDryRunNotice(t *testing.T) {
	t.Parallel()
	report := &RunReport{
		DryRun: true,
		Results: []StepResult{
			{Unit: ProvisioningUnit{Name: "unitA"}, Status: StatusDryRun, ExitCode: 0},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, report.RenderTable(&buf))
	assert.Contains(t, buf.String(), "Dry run: no changes were made.")
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()
	report := sampleReport()
	report.Started = time.Now().Add(-time.Minute)
	report.Finished = time.Now()

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, report.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		RunID     string `yaml:"run_id"`
		AnyFailed bool   `yaml:"any_failed"`
		Steps     []struct {
			Unit     string `yaml:"unit"`
			Status   string `yaml:"status"`
			ExitCode *int   `yaml:"exit_code"`
		} `yaml:"steps"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, "abcd1234", decoded.RunID)
	assert.True(t, decoded.AnyFailed)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, "MISSING", decoded.Steps[0].Status)
	assert.Nil(t, decoded.Steps[0].ExitCode, "missing units have no exit code")
	require.NotNil(t, decoded.Steps[1].ExitCode)
	assert.Equal(t, 0, *decoded.Steps[1].ExitCode)
}

func TestReportExitCodeOnlyZeroWhenClean(t *testing.T) {
	t.Parallel()
	clean := &RunReport{Results: []StepResult{
		{Status: StatusOK}, {Status: StatusDryRun},
	}}
	assert.Equal(t, 0, clean.ExitCode())
	assert.NoError(t, clean.Err())

	dirty := &RunReport{Results: []StepResult{
		{Status: StatusOK},
		{Unit: ProvisioningUnit{Name: "x"}, Status: StatusMissing},
	}}
	assert.Equal(t, 1, dirty.ExitCode())
	assert.Error(t, dirty.Err())
}
