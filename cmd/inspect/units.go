// cmd/inspect/units.go

package inspect

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/config"
	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/orchestrator"
	"github.com/groundworklabs/groundwork/pkg/output"
)

// unitsCmd lists the resolved provisioning units without running anything.
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the provisioning units and their resolved paths",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		units := orchestrator.Resolve(orchestrator.RunConfig{ScriptDir: cfg.ScriptDir})

		table := output.NewTableTo(os.Stdout).WithHeaders("#", "UNIT", "PATH", "PRESENT")
		for i, u := range units {
			present := "yes"
			if _, err := os.Stat(u.Path); err != nil {
				present = "no"
			}
			table.AddRow(strconv.Itoa(i+1), u.Name, u.Path, present)
		}
		return table.Render()
	}),
}
