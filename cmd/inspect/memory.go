// cmd/inspect/memory.go

package inspect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groundworklabs/groundwork/pkg/gw_cli"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/monitor"
)

var memoryLogPath string

// memoryCmd is what the monitor's cron entry invokes. Without --log it just
// prints the sample.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Sample current memory usage",
	RunE: gw_cli.Wrap(func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		sample, err := monitor.Read()
		if err != nil {
			return err
		}

		if memoryLogPath == "" {
			fmt.Println(sample.Line())
			return nil
		}
		return monitor.Append(rc, sample, memoryLogPath)
	}),
}

func init() {
	memoryCmd.Flags().StringVar(&memoryLogPath, "log", "", "append the sample to this log file instead of printing it")
}
