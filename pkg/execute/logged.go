// pkg/execute/logged.go

package execute

import (
	"context"
	"io"
	"os/exec"
	"time"

	cerr "github.com/cockroachdb/errors"
)

// UnitResult is the observable outcome of one logged unit run.
type UnitResult struct {
	ExitCode int
	Elapsed  time.Duration
}

// RunLogged executes path as a child process with combined stdout and stderr
// streamed to output, and returns the exit status and wall-clock elapsed
// time. A nonzero exit status is not an error here; the error return covers
// launch failures and timeouts only. A zero timeout means no deadline.
func RunLogged(ctx context.Context, path string, dir string, output io.Writer, timeout time.Duration) (UnitResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, path)
	cmd.Dir = dir
	cmd.Stdout = output
	cmd.Stderr = output

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		return UnitResult{ExitCode: 0, Elapsed: elapsed}, nil
	}

	var exitErr *exec.ExitError
	if cerr.As(err, &exitErr) {
		if runCtx.Err() == context.DeadlineExceeded {
			return UnitResult{ExitCode: exitErr.ExitCode(), Elapsed: elapsed},
				cerr.Wrapf(context.DeadlineExceeded, "unit %q exceeded timeout %s", path, timeout)
		}
		return UnitResult{ExitCode: exitErr.ExitCode(), Elapsed: elapsed}, nil
	}

	return UnitResult{ExitCode: -1, Elapsed: elapsed}, cerr.Wrapf(err, "failed to launch unit %q", path)
}
