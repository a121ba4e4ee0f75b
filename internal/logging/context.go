package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// WithContext stores logger in ctx for retrieval via FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or a disabled-free default
// logger when none was attached. The returned logger is always safe to use.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
