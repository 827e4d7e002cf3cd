// pkg/orchestrator/runner.go

package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/groundworklabs/groundwork/pkg/execute"
	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const logDirPerm = 0o750

// UnitExecutor abstracts the "run external unit" capability: execute a
// resolved path with combined output captured to w, returning exit status
// and duration. The orchestrator core never touches os/exec directly.
type UnitExecutor interface {
	Execute(ctx context.Context, unit ProvisioningUnit, w io.Writer, timeout time.Duration) (execute.UnitResult, error)
}

type shellExecutor struct{}

func (shellExecutor) Execute(ctx context.Context, unit ProvisioningUnit, w io.Writer, timeout time.Duration) (execute.UnitResult, error) {
	return execute.RunLogged(ctx, unit.Path, filepath.Dir(unit.Path), w, timeout)
}

// Runner executes one provisioning run. Units run strictly sequentially;
// unit n+1 never starts before unit n reached a terminal state.
type Runner struct {
	Config   RunConfig
	Executor UnitExecutor
	Geteuid  func() int
}

// NewRunner builds a Runner with the real executor and privilege probe.
func NewRunner(cfg RunConfig) *Runner {
	return &Runner{
		Config:   cfg,
		Executor: shellExecutor{},
		Geteuid:  os.Geteuid,
	}
}

// Run resolves the unit selection and processes each unit in order. The
// returned error covers preconditions and orchestrator-side failures only;
// per-unit outcomes live in the report.
func (r *Runner) Run(rc *gw_io.RuntimeContext) (*RunReport, error) {
	logger := otelzap.Ctx(rc.Ctx)
	cfg := r.Config

	units := Resolve(cfg)
	if len(units) == 0 {
		return nil, gw_err.NewExpectedError(rc.Ctx, cerr.New("no provisioning units selected"))
	}

	report := &RunReport{
		RunID:   uuid.New().String()[:8],
		DryRun:  cfg.DryRun,
		Started: time.Now(),
	}

	logger.Info("Starting provisioning run",
		zap.String("run_id", report.RunID),
		zap.Int("units", len(units)),
		zap.Bool("dry_run", cfg.DryRun),
		zap.Bool("stop_on_failure", cfg.StopOnFailure))

	// The privilege precondition and the log directory are established once,
	// before the loop. Neither exists in dry-run mode.
	if !cfg.DryRun {
		if r.Geteuid() != 0 {
			return nil, gw_err.NewExpectedError(rc.Ctx, cerr.New("provisioning requires root privileges, re-run with sudo"))
		}
		if err := os.MkdirAll(cfg.LogDir, logDirPerm); err != nil {
			return nil, cerr.Wrapf(err, "failed to create log directory %s", cfg.LogDir)
		}
	}

	for i, unit := range units {
		logger.Info("Processing unit",
			zap.Int("index", i+1),
			zap.String("unit", unit.Name),
			zap.String("path", unit.Path))

		if cfg.DryRun {
			report.Results = append(report.Results, r.previewUnit(rc, unit))
			continue
		}

		res := r.executeUnit(rc, unit)
		report.Results = append(report.Results, res)

		if res.Status == StatusMissing {
			if cfg.StopOnMissing {
				logger.Warn("Stopping run: unit missing and stop-on-missing is set", zap.String("unit", unit.Name))
				break
			}
			continue
		}
		if res.Status == StatusFail && cfg.StopOnFailure {
			logger.Warn("Stopping run after failed unit", zap.String("unit", unit.Name))
			break
		}
	}

	report.Finished = time.Now()
	logger.Info("Provisioning run finished",
		zap.String("run_id", report.RunID),
		zap.Int("results", len(report.Results)),
		zap.Bool("any_failed", report.AnyFailed()))
	return report, nil
}

// previewUnit handles one unit in dry-run mode: nothing is spawned, nothing
// is written; shell units additionally get their top-level commands listed.
func (r *Runner) previewUnit(rc *gw_io.RuntimeContext, unit ProvisioningUnit) StepResult {
	logger := otelzap.Ctx(rc.Ctx)
	start := time.Now()

	logger.Info("Dry run - unit not executed",
		zap.String("unit", unit.Name),
		zap.String("would_run", unit.Path))

	cmds, err := PreviewCommands(unit.Path)
	if err != nil {
		logger.Warn("Could not preview unit contents", zap.String("unit", unit.Name), zap.Error(err))
	}
	for _, cmd := range cmds {
		logger.Info("Would execute", zap.String("unit", unit.Name), zap.String("cmd", cmd))
	}

	return StepResult{
		Unit:     unit,
		Status:   StatusDryRun,
		ExitCode: 0,
		Elapsed:  time.Since(start),
	}
}

// executeUnit takes one unit from PENDING to a terminal state.
func (r *Runner) executeUnit(rc *gw_io.RuntimeContext, unit ProvisioningUnit) StepResult {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := os.Stat(unit.Path); err != nil {
		logger.Warn("Unit not found on disk",
			zap.String("unit", unit.Name),
			zap.String("path", unit.Path))
		return StepResult{Unit: unit, Status: StatusMissing, ExitCode: ExitCodeNone}
	}

	logPath := filepath.Join(r.Config.LogDir, unit.Name+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		logger.Error("Failed to open unit log file", zap.String("path", logPath), zap.Error(err))
		return StepResult{Unit: unit, Status: StatusFail, ExitCode: ExitCodeNone, LogPath: logPath}
	}
	defer logFile.Close()

	res, execErr := r.Executor.Execute(rc.Ctx, unit, logFile, r.Config.UnitTimeout)

	result := StepResult{
		Unit:     unit,
		ExitCode: res.ExitCode,
		Elapsed:  res.Elapsed,
		LogPath:  logPath,
	}

	switch {
	case execErr != nil:
		result.Status = StatusFail
		logger.Error("Unit failed to run",
			zap.String("unit", unit.Name),
			zap.Error(execErr))
	case res.ExitCode != 0:
		result.Status = StatusFail
		logger.Error("Unit failed",
			zap.String("unit", unit.Name),
			zap.Int("exit_code", res.ExitCode),
			zap.String("log", logPath))
	default:
		result.Status = StatusOK
		logger.Info("Unit succeeded",
			zap.String("unit", unit.Name),
			zap.Duration("elapsed", res.Elapsed))
	}
	return result
}
