package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-pagelist/pkg/interfaces"
)

// WithFields returns logger with a copy of fields attached when it implements
// interfaces.FieldsLogger. Other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// ForOperation scopes logger to ctx and tags its entries with operation and
// fields. A nil logger yields NoOp.
func ForOperation(ctx context.Context, logger interfaces.Logger, operation string, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	tagged := make(map[string]any, len(fields)+1)
	maps.Copy(tagged, fields)
	tagged["operation"] = operation
	return WithFields(logger, tagged)
}
