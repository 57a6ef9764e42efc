// Package logging defines the minimal structured-logging interface used
// across hashindex. Components receive a Logger and never construct their
// own handlers.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs:
//
//	log.Info(ctx, "uploaded", "path", path, "ref", ref)
type Logger interface {
	// Debug logs fine-grained progress detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions, such as a
	// per-item failure collected into a batch report.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
