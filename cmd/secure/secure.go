// cmd/secure/secure.go

package secure

import (
	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

// SecureCmd groups the hardening units.
var SecureCmd = &cobra.Command{
	Use:   "secure",
	Short: "Harden host services (ssh)",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	SecureCmd.AddCommand(sshCmd)
}
