package apperr

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error that a boundary swallows instead of returning.
// msg names what failed, e.g. "failed to load sites".
func Handle(ctx context.Context, msg string, err error, attrs ...any) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	logger.Error(msg, append([]any{slog.Any("error", err)}, attrs...)...)
}

// Warn logs a degraded-but-handled failure, such as a defaulted comparison metric
func Warn(ctx context.Context, msg string, err error, attrs ...any) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	logger.Warn(msg, append([]any{slog.Any("error", err)}, attrs...)...)
}
