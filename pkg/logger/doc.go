// Package logger provides structured logging with configurable log levels.
// It wraps log/slog, emitting JSON in production and text elsewhere, and can
// tag records with the Lambda request they belong to.
package logger
