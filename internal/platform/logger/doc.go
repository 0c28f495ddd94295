// Package logger configures the process-wide slog JSON handler and carries
// request-scoped loggers through context.Context.
//
// Services keep a component logger built with slog.With and resolve the
// request logger with FromContextOrDefault, so trace IDs attached by the
// HTTP middleware show up on every line logged while serving a request.
package logger
