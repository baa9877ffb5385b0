package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-pagelist/internal/logging"
	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// DefaultCommandTimeout bounds module lifecycle and render commands.
const DefaultCommandTimeout = 30 * time.Second

// commandContext derives the execution context. A nil ctx becomes
// context.Background and a non-positive timeout leaves it unbounded.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns logger, or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
