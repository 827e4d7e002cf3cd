// cmd/inspect/inspect.go

package inspect

import (
	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

// InspectCmd groups read-only host inspection commands.
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect host state (memory, units)",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	InspectCmd.AddCommand(memoryCmd)
	InspectCmd.AddCommand(unitsCmd)
}
