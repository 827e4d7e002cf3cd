// pkg/hardening/firewall.go

package hardening

import (
	"fmt"
	"os/exec"

	"github.com/groundworklabs/groundwork/pkg/execute"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// AllowPorts opens the given ports on whichever firewall backend the host
// runs. Ports are strings so service syntax like "22/tcp" passes through.
func AllowPorts(rc *gw_io.RuntimeContext, ports []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := exec.LookPath("ufw"); err == nil {
		logger.Info("Using ufw for firewall changes", zap.Strings("ports", ports))
		return allowPortsUFW(rc, ports)
	}
	if _, err := exec.LookPath("firewall-cmd"); err == nil {
		logger.Info("Using firewalld for firewall changes", zap.Strings("ports", ports))
		return allowPortsFirewalld(rc, ports)
	}

	logger.Warn("No supported firewall backend found, skipping port rules")
	return cerr.New("no supported firewall backend (ufw, firewall-cmd)")
}

func allowPortsUFW(rc *gw_io.RuntimeContext, ports []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	// Enabling an already-enabled ufw returns nonzero; not fatal.
	if err := execute.RunSimple(rc.Ctx, "ufw", "--force", "enable"); err != nil {
		logger.Warn("ufw enable returned error, continuing", zap.Error(err))
	}

	for _, port := range ports {
		if err := execute.RunSimple(rc.Ctx, "ufw", "allow", port); err != nil {
			return cerr.Wrapf(err, "failed to allow port %s", port)
		}
	}
	return execute.RunSimple(rc.Ctx, "ufw", "reload")
}

func allowPortsFirewalld(rc *gw_io.RuntimeContext, ports []string) error {
	if err := execute.RunSimple(rc.Ctx, "firewall-cmd", "--state"); err != nil {
		return cerr.Wrap(err, "firewalld is not running")
	}

	for _, port := range ports {
		rule := fmt.Sprintf("--add-port=%s", normalizeFirewalldPort(port))
		if err := execute.RunSimple(rc.Ctx, "firewall-cmd", "--permanent", rule); err != nil {
			return cerr.Wrapf(err, "failed to allow port %s", port)
		}
	}
	return execute.RunSimple(rc.Ctx, "firewall-cmd", "--reload")
}

// normalizeFirewalldPort maps bare port numbers to firewalld's port/proto
// syntax, defaulting to tcp.
func normalizeFirewalldPort(port string) string {
	for _, r := range port {
		if r == '/' {
			return port
		}
	}
	return port + "/tcp"
}
