// cmd/create/monitor.go

package create

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/config"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/interaction"
	"github.com/groundworklabs/groundwork/pkg/schedule"
)

// cronMarker tags the crontab line so reruns replace instead of duplicate.
const cronMarker = "# groundwork-memory-monitor"

var (
	monitorInterval int
	monitorLog      string
	monitorDryRun   bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Install the cron-driven memory monitor",
	Long: `Installs a crontab entry that samples memory usage every N minutes and
appends it to a log file. The entry is marked so repeat installs update the
schedule in place.`,
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		interval := monitorInterval
		if interval == 0 {
			interval = cfg.MonitorInterval
		}
		logPath := monitorLog
		if logPath == "" {
			logPath = cfg.MonitorLog
		}

		line := CronLine(interval, logPath)

		if monitorDryRun {
			logger.Info("Dry run - would install cron entry", zap.String("entry", line))
			return nil
		}

		if err := interaction.RequireRoot(rc, "create monitor"); err != nil {
			return err
		}

		current, err := schedule.Current(rc)
		if err != nil {
			return err
		}
		updated, changed := schedule.EnsureLine(current, line, cronMarker)
		if !changed {
			logger.Info("Memory monitor cron entry already installed", zap.String("entry", line))
			return nil
		}
		if err := schedule.Install(rc, updated, "/var/backups/groundwork"); err != nil {
			return err
		}

		logger.Info("Installed memory monitor",
			zap.Int("interval_minutes", interval),
			zap.String("log", logPath))
		return nil
	}),
}

// CronLine renders the monitor's crontab entry for the given interval.
func CronLine(intervalMinutes int, logPath string) string {
	return fmt.Sprintf("*/%d * * * * /usr/local/bin/groundwork inspect memory --log %s %s",
		intervalMinutes, logPath, cronMarker)
}

func init() {
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 0, "sample interval in minutes (default from configuration)")
	monitorCmd.Flags().StringVar(&monitorLog, "log", "", "memory log file path (default from configuration)")
	monitorCmd.Flags().BoolVar(&monitorDryRun, "dry-run", false, "log the actions without executing them")
}
