// cmd/create/webserver.go

package create

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/config"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/hardening"
	"github.com/groundworklabs/groundwork/pkg/interaction"
	"github.com/groundworklabs/groundwork/pkg/webserver"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var (
	webHTTPS  bool
	webDryRun bool
)

var webserverCmd = &cobra.Command{
	Use:   "webserver",
	Short: "Deploy the containerized nginx webserver",
	Long: `Pulls the configured nginx image and starts it with the configured port
bindings. With --https a self-signed certificate is generated (if absent)
and mounted into the container, and the HTTPS port is opened alongside HTTP.`,
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if !webDryRun {
			if err := interaction.RequireRoot(rc, "create webserver"); err != nil {
				return err
			}
		}

		opts := webserver.DeployOptions{
			ContainerName: cfg.WebServerName,
			Image:         cfg.WebImage,
			HTTPPort:      cfg.HTTPPort,
			HTTPSPort:     cfg.HTTPSPort,
			TLSDir:        cfg.TLSDir,
			EnableHTTPS:   webHTTPS,
			DryRun:        webDryRun,
		}
		if err := webserver.Deploy(rc, opts); err != nil {
			return err
		}
		if webDryRun {
			return nil
		}

		ports := []string{portString(cfg.HTTPPort)}
		if webHTTPS {
			ports = append(ports, portString(cfg.HTTPSPort))
		}
		if err := hardening.AllowPorts(rc, ports); err != nil {
			// The container is up; a missing firewall backend should not fail
			// the deployment.
			otelzap.Ctx(rc.Ctx).Warn("Could not open firewall ports", zap.Error(err))
		}
		return nil
	}),
}

func portString(p int) string {
	return strconv.Itoa(p)
}

func init() {
	webserverCmd.Flags().BoolVar(&webHTTPS, "https", false, "serve HTTPS with a self-signed certificate")
	webserverCmd.Flags().BoolVar(&webDryRun, "dry-run", false, "log the actions without executing them")
}
