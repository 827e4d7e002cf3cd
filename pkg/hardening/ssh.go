// pkg/hardening/ssh.go
//
// SSH daemon hardening: patch sshd_config in place with a timestamped
// backup, validate the result with sshd -t, and reload the service. The
// validation step runs before reload so a bad patch never takes down remote
// access.

package hardening

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/groundworklabs/groundwork/pkg/execute"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/interaction"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const DefaultSSHConfigPath = "/etc/ssh/sshd_config"

// SSHOptions configures the hardening pass.
type SSHOptions struct {
	Port       int
	ConfigPath string // empty means DefaultSSHConfigPath
	DryRun     bool
}

// hardenedDirectives are the settings enforced on the host, keyed by
// sshd_config directive name.
func hardenedDirectives(port int) [][2]string {
	return [][2]string{
		{"Port", fmt.Sprintf("%d", port)},
		{"PermitRootLogin", "no"},
		{"PasswordAuthentication", "no"},
		{"ChallengeResponseAuthentication", "no"},
		{"X11Forwarding", "no"},
	}
}

// PatchSSHConfig rewrites content so every hardened directive is present
// exactly once with the enforced value. Existing occurrences (commented or
// not) are replaced in place; absent directives are appended at the end.
func PatchSSHConfig(content string, port int) string {
	lines := strings.Split(content, "\n")

	for _, directive := range hardenedDirectives(port) {
		key, value := directive[0], directive[1]
		replaced := false

		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			trimmed = strings.TrimPrefix(trimmed, "#")
			trimmed = strings.TrimSpace(trimmed)

			fields := strings.Fields(trimmed)
			if len(fields) == 0 || !strings.EqualFold(fields[0], key) {
				continue
			}
			if !replaced {
				lines[i] = key + " " + value
				replaced = true
			} else {
				// Duplicate directive: comment it out rather than delete,
				// so the operator can see what was there.
				lines[i] = "# " + key + " " + strings.Join(fields[1:], " ") + " (disabled by groundwork)"
			}
		}

		if !replaced {
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
				lines = lines[:len(lines)-1]
			}
			lines = append(lines, key+" "+value, "")
		}
	}

	return strings.Join(lines, "\n")
}

// HardenSSH applies the hardened sshd configuration.
func HardenSSH(rc *gw_io.RuntimeContext, opts SSHOptions) error {
	logger := otelzap.Ctx(rc.Ctx)

	path := opts.ConfigPath
	if path == "" {
		path = DefaultSSHConfigPath
	}

	if opts.DryRun {
		logger.Info("Dry run - would harden sshd",
			zap.String("config", path),
			zap.Int("ssh_port", opts.Port),
			zap.String("would_run", "sshd -t && systemctl reload ssh"))
		return nil
	}

	if err := interaction.RequireRoot(rc, "secure ssh"); err != nil {
		return err
	}

	current, err := os.ReadFile(path)
	if err != nil {
		return cerr.Wrapf(err, "failed to read %s", path)
	}

	patched := PatchSSHConfig(string(current), opts.Port)
	if patched == string(current) {
		logger.Info("sshd configuration already hardened", zap.String("config", path))
		return reloadSSHD(rc)
	}

	backup := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, current, 0o600); err != nil {
		return cerr.Wrapf(err, "failed to write backup %s", backup)
	}
	logger.Info("Backed up sshd configuration", zap.String("backup", backup))

	if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
		return cerr.Wrapf(err, "failed to write %s", path)
	}

	if err := execute.RunSimple(rc.Ctx, "sshd", "-t"); err != nil {
		logger.Error("Patched sshd configuration failed validation, restoring backup", zap.Error(err))
		if restoreErr := os.WriteFile(path, current, 0o644); restoreErr != nil {
			return cerr.Wrapf(restoreErr, "failed to restore %s from %s after invalid patch", path, backup)
		}
		return cerr.Wrap(err, "patched sshd configuration is invalid")
	}

	logger.Info("Hardened sshd configuration",
		zap.String("config", path),
		zap.Int("ssh_port", opts.Port))
	return reloadSSHD(rc)
}

// reloadSSHD reloads the SSH service; the unit name differs across distros.
func reloadSSHD(rc *gw_io.RuntimeContext) error {
	if err := execute.RunSimple(rc.Ctx, "systemctl", "reload", "ssh"); err == nil {
		return nil
	}
	if err := execute.RunSimple(rc.Ctx, "systemctl", "reload", "sshd"); err != nil {
		return cerr.Wrap(err, "failed to reload ssh service")
	}
	return nil
}
