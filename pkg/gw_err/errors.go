// pkg/gw_err/errors.go

package gw_err

import (
	"context"
	"errors"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// UserError marks an error as expected operator-facing feedback rather than
// a bug in groundwork itself. Expected errors are reported without a stack
// trace and still exit nonzero.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	otelzap.Ctx(ctx).Debug("Expected error recorded", zap.Error(err))
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// WrapValidationError attaches a hint and stack to a validation failure.
func WrapValidationError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "validation failed")
}

// ExtractSummary extracts a concise error summary from captured command
// output, preferring lines that look like errors over the first line.
func ExtractSummary(output string, maxCandidates int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "No output provided."
	}

	lines := strings.Split(trimmed, "\n")
	var candidates []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") ||
			strings.Contains(lower, "failed") ||
			strings.Contains(lower, "cannot") ||
			strings.Contains(lower, "denied") ||
			strings.Contains(lower, "fatal") ||
			strings.Contains(lower, "timeout") {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) > 0 {
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return strings.Join(candidates, " - ")
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	return "Unknown error."
}
