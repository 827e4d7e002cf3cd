// cmd/provision/provision.go

package provision

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/config"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/orchestrator"
)

var (
	dryRun        bool
	stopOnFailure bool
	stopOnMissing bool
	scriptsCSV    string
	logDir        string
	unitTimeout   time.Duration
)

// ProvisionCmd runs the ordered provisioning units and prints a summary.
var ProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Run the provisioning units in order and summarize the results",
	Long: `Provision runs each provisioning unit sequentially, capturing per-unit
exit codes, timing, and log locations, then prints a summary table. With
--dry-run it previews the commands each unit would execute without touching
the host.`,
	RunE: gw_cli.Wrap(runProvision),
}

func init() {
	ProvisionCmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the run without executing any unit")
	ProvisionCmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "halt after the first unit that fails")
	ProvisionCmd.Flags().BoolVar(&stopOnMissing, "stop-on-missing", false, "halt when a unit script is missing from disk")
	ProvisionCmd.Flags().StringVar(&scriptsCSV, "scripts", "", "comma-separated unit names or paths (default: the built-in ordered set)")
	ProvisionCmd.Flags().StringVar(&logDir, "log-dir", "", "directory for per-unit logs (default from configuration)")
	ProvisionCmd.Flags().DurationVar(&unitTimeout, "timeout", 0, "per-unit execution timeout, 0 disables")
}

func runProvision(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runCfg := orchestrator.RunConfig{
		DryRun:        dryRun,
		StopOnFailure: stopOnFailure,
		StopOnMissing: stopOnMissing,
		SelectedUnits: splitScripts(scriptsCSV),
		ScriptDir:     cfg.ScriptDir,
		LogDir:        cfg.LogDir,
		UnitTimeout:   unitTimeout,
	}
	if logDir != "" {
		runCfg.LogDir = logDir
	}

	runner := orchestrator.NewRunner(runCfg)
	report, err := runner.Run(rc)
	if err != nil {
		return err
	}

	if err := report.RenderTable(os.Stdout); err != nil {
		return err
	}

	if !dryRun {
		reportPath := filepath.Join(runCfg.LogDir, "report.yaml")
		if err := report.WriteYAML(reportPath); err != nil {
			logger.Warn("Failed to write run report", zap.String("path", reportPath), zap.Error(err))
		} else {
			logger.Info("Wrote run report", zap.String("path", reportPath))
		}
	}

	if err := report.Err(); err != nil {
		// Unit failures are operator-facing, not internal bugs, but they must
		// still fail the process.
		return gw_err.NewExpectedError(rc.Ctx, err)
	}
	return nil
}

func splitScripts(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	units := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			units = append(units, trimmed)
		}
	}
	return units
}
