// pkg/users/users.go
//
// Deploy user provisioning: system account creation with a bcrypt-hashed
// password and passwordless sudo via a validated sudoers drop-in. Every step
// is idempotent; re-running against an existing, fully configured user is a
// no-op.

package users

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"

	"github.com/groundworklabs/groundwork/pkg/crypto"
	"github.com/groundworklabs/groundwork/pkg/execute"
	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/interaction"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const sudoersDir = "/etc/sudoers.d"

var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// CreateOptions describes the deploy user to provision.
type CreateOptions struct {
	Username string
	// Password is optional; empty means generate a random one.
	Password string
	DryRun   bool
}

// Exists reports whether a local account with this name exists.
func Exists(username string) bool {
	_, err := user.Lookup(username)
	return err == nil
}

// ValidateUsername enforces the conventional Linux username shape.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return cerr.Newf("invalid username %q: must start with a lowercase letter or underscore and contain only lowercase letters, digits, underscores and hyphens", username)
	}
	return nil
}

// Create provisions the deploy user.
func Create(rc *gw_io.RuntimeContext, opts CreateOptions) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := ValidateUsername(opts.Username); err != nil {
		return gw_err.NewExpectedError(rc.Ctx, err)
	}

	if opts.DryRun {
		logger.Info("Dry run - would create deploy user",
			zap.String("username", opts.Username),
			zap.String("would_run", fmt.Sprintf("useradd -m -s /bin/bash %s", opts.Username)),
			zap.String("sudoers", filepath.Join(sudoersDir, opts.Username)))
		return nil
	}

	if err := interaction.RequireRoot(rc, "create user"); err != nil {
		return err
	}

	if Exists(opts.Username) {
		logger.Info("User already exists, ensuring sudo access", zap.String("username", opts.Username))
		return ensureSudoers(rc, opts.Username)
	}

	logger.Info("Creating user", zap.String("username", opts.Username))
	if err := execute.RunSimple(rc.Ctx, "useradd", "-m", "-s", "/bin/bash", opts.Username); err != nil {
		return cerr.Wrapf(err, "failed to create user %s", opts.Username)
	}

	password := opts.Password
	if password == "" {
		generated, err := crypto.GeneratePassword(20)
		if err != nil {
			return err
		}
		password = generated
		logger.Info("Generated password for deploy user; rotate it after first login",
			zap.String("username", opts.Username),
			zap.String("password", password))
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	if err := execute.RunSimple(rc.Ctx, "usermod", "--password", hash, opts.Username); err != nil {
		return cerr.Wrapf(err, "failed to set password for %s", opts.Username)
	}

	return ensureSudoers(rc, opts.Username)
}

// ensureSudoers writes the passwordless sudo drop-in and validates it with
// visudo before trusting it. An invalid drop-in is removed again: a broken
// file under /etc/sudoers.d can lock everyone out of sudo.
func ensureSudoers(rc *gw_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := filepath.Join(sudoersDir, username)

	content := SudoersEntry(username)
	if current, err := os.ReadFile(path); err == nil && string(current) == content {
		logger.Info("Sudoers drop-in already in place", zap.String("path", path))
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0o440); err != nil {
		return cerr.Wrapf(err, "failed to write sudoers drop-in %s", path)
	}

	if err := execute.RunSimple(rc.Ctx, "visudo", "-cf", path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Error("Failed to remove invalid sudoers drop-in", zap.String("path", path), zap.Error(rmErr))
		}
		return cerr.Wrapf(err, "sudoers drop-in %s failed validation", path)
	}

	logger.Info("Granted passwordless sudo", zap.String("username", username), zap.String("path", path))
	return nil
}

// SudoersEntry renders the drop-in granting passwordless sudo.
func SudoersEntry(username string) string {
	return fmt.Sprintf("%s ALL=(ALL) NOPASSWD:ALL\n", username)
}
