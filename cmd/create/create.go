// cmd/create/create.go

package create

import (
	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

// CreateCmd groups the resource-creating provisioning units.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create resources (deploy user, webserver, monitor)",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	CreateCmd.AddCommand(userCmd)
	CreateCmd.AddCommand(webserverCmd)
	CreateCmd.AddCommand(monitorCmd)
}
