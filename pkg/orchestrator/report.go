// pkg/orchestrator/report.go

package orchestrator

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/groundworklabs/groundwork/pkg/output"
	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// placeholder marks table cells whose value does not apply to the row.
const placeholder = "-"

// FormatElapsed renders a duration as HH:MM:SS, rounding to whole seconds.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// RenderTable writes the summary table in its fixed column order: 1-based
// index, unit name, status, exit code, elapsed, log location.
func (r *RunReport) RenderTable(w io.Writer) error {
	table := output.NewTableTo(w).
		WithHeaders("#", "UNIT", "STATUS", "EXIT", "ELAPSED", "LOG")

	for i, res := range r.Results {
		exit := placeholder
		if res.Status != StatusMissing && res.ExitCode != ExitCodeNone {
			exit = strconv.Itoa(res.ExitCode)
		}

		elapsed := placeholder
		if res.Status != StatusMissing {
			elapsed = FormatElapsed(res.Elapsed)
		}

		logPath := placeholder
		if res.LogPath != "" {
			logPath = res.LogPath
		}

		table.AddRow(strconv.Itoa(i+1), res.Unit.Name, string(res.Status), exit, elapsed, logPath)
	}

	if err := table.Render(); err != nil {
		return err
	}

	if r.DryRun {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Dry run: no changes were made.")
	}
	return nil
}

type yamlStep struct {
	Unit     string `yaml:"unit"`
	Path     string `yaml:"path"`
	Status   string `yaml:"status"`
	ExitCode *int   `yaml:"exit_code,omitempty"`
	Elapsed  string `yaml:"elapsed,omitempty"`
	Log      string `yaml:"log,omitempty"`
}

type yamlReport struct {
	RunID     string     `yaml:"run_id"`
	Started   time.Time  `yaml:"started"`
	Finished  time.Time  `yaml:"finished"`
	AnyFailed bool       `yaml:"any_failed"`
	Steps     []yamlStep `yaml:"steps"`
}

// WriteYAML writes the machine-readable run report to path.
func (r *RunReport) WriteYAML(path string) error {
	doc := yamlReport{
		RunID:     r.RunID,
		Started:   r.Started,
		Finished:  r.Finished,
		AnyFailed: r.AnyFailed(),
		Steps:     make([]yamlStep, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		step := yamlStep{
			Unit:   res.Unit.Name,
			Path:   res.Unit.Path,
			Status: string(res.Status),
			Log:    res.LogPath,
		}
		if res.Status != StatusMissing && res.ExitCode != ExitCodeNone {
			code := res.ExitCode
			step.ExitCode = &code
		}
		if res.Status != StatusMissing {
			step.Elapsed = FormatElapsed(res.Elapsed)
		}
		doc.Steps = append(doc.Steps, step)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return cerr.Wrap(err, "failed to encode run report")
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return cerr.Wrapf(err, "failed to write run report %s", path)
	}
	return nil
}
