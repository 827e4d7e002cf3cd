// pkg/schedule/crontab.go
//
// Manages root's crontab through the crontab binary. Entries installed by
// this tool carry a trailing marker comment so reruns replace rather than
// duplicate them.

package schedule

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

// Current returns the invoking user's crontab. A missing crontab is not an
// error; it returns the empty string.
func Current(rc *gw_io.RuntimeContext) (string, error) {
	out, err := exec.CommandContext(rc.Ctx, "crontab", "-l").CombinedOutput()
	if err != nil {
		// crontab -l exits 1 with "no crontab for <user>" when empty.
		if strings.Contains(string(out), "no crontab for") {
			return "", nil
		}
		return "", cerr.Wrapf(err, "failed to read crontab: %s", strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// EnsureLine returns crontab content with line present exactly once. Any
// existing line carrying marker is replaced, so changed schedules update in
// place. The second return reports whether the content changed.
func EnsureLine(crontab, line, marker string) (string, bool) {
	lines := strings.Split(strings.TrimRight(crontab, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	replaced := false
	changed := false
	kept := make([]string, 0, len(lines)+1)
	for _, existing := range lines {
		if !strings.Contains(existing, marker) {
			kept = append(kept, existing)
			continue
		}
		if replaced {
			// Stray duplicate from a manual edit, drop it.
			changed = true
			continue
		}
		if existing != line {
			changed = true
		}
		kept = append(kept, line)
		replaced = true
	}
	if !replaced {
		kept = append(kept, line)
		changed = true
	}
	return strings.Join(kept, "\n") + "\n", changed
}

// Install writes content as the invoking user's crontab, backing up the
// previous crontab beside the backup dir first.
func Install(rc *gw_io.RuntimeContext, content, backupDir string) error {
	logger := otelzap.Ctx(rc.Ctx)

	previous, err := Current(rc)
	if err != nil {
		return err
	}
	if previous != "" && backupDir != "" {
		if err := os.MkdirAll(backupDir, 0o750); err != nil {
			return cerr.Wrapf(err, "failed to create backup dir %s", backupDir)
		}
		backup := filepath.Join(backupDir, "crontab.bak."+time.Now().Format("20060102-150405"))
		if err := os.WriteFile(backup, []byte(previous), 0o600); err != nil {
			return cerr.Wrapf(err, "failed to back up crontab to %s", backup)
		}
		logger.Info("Backed up crontab", zap.String("backup", backup))
	}

	cmd := exec.CommandContext(rc.Ctx, "crontab", "-")
	cmd.Stdin = strings.NewReader(content)
	if out, err := cmd.CombinedOutput(); err != nil {
		return cerr.Wrapf(err, "failed to install crontab: %s", strings.TrimSpace(string(out)))
	}
	logger.Info("Installed crontab")
	return nil
}
