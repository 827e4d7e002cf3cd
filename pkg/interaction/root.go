// pkg/interaction/root.go
package interaction

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// RequireRoot checks that the process runs with EUID 0 and returns a
// user-facing error with the exact sudo invocation when it does not.
func RequireRoot(rc *gw_io.RuntimeContext, commandName string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if os.Geteuid() != 0 {
		logger.Info("Root privileges required",
			zap.String("command", commandName),
			zap.Int("current_uid", os.Geteuid()))
		logger.Info(fmt.Sprintf("The '%s' command requires root privileges.", commandName))
		logger.Info("Please run with sudo:")
		logger.Info(fmt.Sprintf("  sudo %s", strings.Join(os.Args, " ")))

		return gw_err.NewExpectedError(rc.Ctx, fmt.Errorf("this command must be run as root"))
	}

	return nil
}

// PromptPassword reads a password from the terminal without echo, twice,
// and verifies both entries match.
func PromptPassword(rc *gw_io.RuntimeContext, prompt string) (string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if string(first) != string(second) {
		logger.Warn("Password confirmation mismatch")
		return "", gw_err.NewExpectedError(rc.Ctx, fmt.Errorf("passwords do not match"))
	}

	return string(first), nil
}
