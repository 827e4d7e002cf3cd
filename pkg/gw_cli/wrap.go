// pkg/gw_cli/wrap.go

package gw_cli

import (
	"context"

	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/logger"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// Wrap adapts a groundwork handler into a cobra RunE, adding panic recovery,
// a runtime context with tracing, and end-of-command accounting.
func Wrap(fn func(rc *gw_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if logger.L() == nil {
			logger.InitFallback()
		}

		rc := gw_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		err = fn(rc, cmd, args)
		if err != nil && !gw_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
