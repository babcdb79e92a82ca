// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Request-scoped loggers travel in the context
// (WithLogger, FromContext) so handlers and pipeline stages log with the
// trace id of the request that triggered them.
package logger
