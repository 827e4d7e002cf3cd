// pkg/gw_io/context.go

package gw_io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/groundworklabs/groundwork/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries everything a command handler needs for one
// invocation: a traced context, a scoped logger, and per-run metadata.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Span       trace.Span
	Timestamp  time.Time
	Command    string
	Attributes map[string]string
}

// NewContext sets up tracing and logging hooks for one command invocation.
func NewContext(ctx context.Context, cmdName string) *RuntimeContext {
	ctx, span := telemetry.Start(ctx, cmdName)

	runID := uuid.New().String()[:8]
	logger := zap.L().With(
		zap.String("command", cmdName),
		zap.String("run_id", runID),
	)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        logger,
		Timestamp:  time.Now(),
		Command:    cmdName,
		Attributes: map[string]string{"run_id": runID},
	}
}

// WithTimeout derives a child context bounded by d.
func (rc *RuntimeContext) WithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(rc.Ctx, d)
}

// HandlePanic recovers panics, logs them, and converts them to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End logs the command outcome and closes the span. Call via defer with a
// pointer to the handler's named error return.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	duration := time.Since(rc.Timestamp)
	success := *errPtr == nil

	if success {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	} else {
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(*errPtr))
	}

	rc.Span.SetAttributes(
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("args", strings.Join(os.Args[1:], " ")),
	)
	if !success {
		rc.Span.RecordError(*errPtr)
	}
}
