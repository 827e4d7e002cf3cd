// pkg/orchestrator/unit.go
//
// Package orchestrator runs an ordered list of provisioning units - external,
// idempotent, privilege-requiring programs - one at a time, records each
// outcome, and produces a summary report. Units are opaque: the orchestrator
// knows their identity, exit status, elapsed time, and captured output
// location, nothing else.

package orchestrator

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Status is the terminal (or transient) state of one unit.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusOK      Status = "OK"
	StatusFail    Status = "FAIL"
	StatusMissing Status = "MISSING"
	StatusDryRun  Status = "DRY_RUN"
)

// ExitCodeNone is the sentinel exit code for results where no child process
// ran to completion (MISSING units, launch failures).
const ExitCodeNone = -1

// ProvisioningUnit identifies one external step.
type ProvisioningUnit struct {
	Name string
	Path string
}

// RunConfig is the immutable configuration for one orchestrator invocation.
// It is fully resolved before the first unit executes and never changes
// mid-run.
type RunConfig struct {
	DryRun        bool
	StopOnFailure bool

	// StopOnMissing extends the stop policy to MISSING units. By default a
	// missing unit is treated as a configuration issue: it marks the run
	// failed but the loop continues past it, unlike a hard FAIL.
	StopOnMissing bool

	// SelectedUnits is the ordered unit selection; empty means the default
	// ordered set.
	SelectedUnits []string

	// ScriptDir is where bare unit names resolve. Empty means the directory
	// of the running executable.
	ScriptDir string

	// LogDir receives one combined-output log file per attempted unit.
	LogDir string

	// UnitTimeout bounds each unit's execution; zero means no deadline.
	UnitTimeout time.Duration
}

// StepResult is the outcome of one processed unit. It is created when the
// unit begins processing and immutable once appended to the report.
type StepResult struct {
	Unit     ProvisioningUnit
	Status   Status
	ExitCode int
	Elapsed  time.Duration
	LogPath  string
}

// Failed reports whether this result counts toward the run's failure flag.
func (s StepResult) Failed() bool {
	return s.Status == StatusFail || s.Status == StatusMissing
}

// RunReport aggregates all StepResults for one invocation.
type RunReport struct {
	RunID    string
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Results  []StepResult
}

// AnyFailed reports whether any unit ended FAIL or MISSING.
func (r *RunReport) AnyFailed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// ExitCode is the orchestrator process's own exit code for this run,
// independent of any individual unit's exit code.
func (r *RunReport) ExitCode() int {
	if r.AnyFailed() {
		return 1
	}
	return 0
}

// Err aggregates per-unit failures, or nil when the run was clean.
func (r *RunReport) Err() error {
	var merr *multierror.Error
	for _, res := range r.Results {
		switch res.Status {
		case StatusFail:
			merr = multierror.Append(merr, fmt.Errorf("unit %s failed with exit code %d", res.Unit.Name, res.ExitCode))
		case StatusMissing:
			merr = multierror.Append(merr, fmt.Errorf("unit %s not found at %s", res.Unit.Name, res.Unit.Path))
		}
	}
	return merr.ErrorOrNil()
}
