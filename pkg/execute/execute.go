// pkg/execute/execute.go
//
// External command execution with structured logging. Shell execution is
// not offered; callers pass argv explicitly.

package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/groundworklabs/groundwork/pkg/gw_err"
	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const defaultTimeout = 3 * time.Minute

// Options describes one external command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration // zero means defaultTimeout
	Retries int           // total attempts; zero and one both mean one attempt
	Delay   time.Duration // sleep between attempts
	Capture bool          // return combined output to the caller
	DryRun  bool          // log the command instead of running it
	Logger  *zap.Logger
}

// Run executes a command, capturing combined output, with optional retries.
func Run(ctx context.Context, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmdStr := commandString(opts.Command, opts.Args)

	if opts.DryRun {
		logger.Info("Dry run mode - command not executed", zap.String("command", cmdStr))
		return "", nil
	}

	runCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(opts.Timeout))
	defer cancel()

	logger.Debug("Starting execution", zap.String("command", cmdStr))

	attempts := maxInt(1, opts.Retries)
	var output string
	var err error

	for i := 1; i <= attempts; i++ {
		cmd := exec.CommandContext(runCtx, opts.Command, opts.Args...)
		if opts.Dir != "" {
			cmd.Dir = opts.Dir
		}

		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf

		err = cmd.Run()
		output = buf.String()

		if err == nil {
			logger.Debug("Execution succeeded", zap.String("command", cmdStr))
			break
		}

		logger.Error("Execution failed",
			zap.Int("attempt", i),
			zap.String("command", cmdStr),
			zap.String("summary", gw_err.ExtractSummary(output, 2)),
			zap.Error(err),
		)

		if i < attempts {
			time.Sleep(opts.Delay)
		}
	}

	if err != nil {
		return output, cerr.Wrapf(err, "command %q failed after %d attempt(s)", opts.Command, attempts)
	}

	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// RunSimple executes a command with defaults and discards its output.
func RunSimple(ctx context.Context, cmd string, args ...string) error {
	_, err := Run(ctx, Options{Command: cmd, Args: args})
	return err
}

func commandString(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

func timeoutOrDefault(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return defaultTimeout
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
