// Package esilog wraps log/slog with the handful of call sites the
// build pipeline needs: a Warn for numeric degeneracies absorbed per
// §7, and an Info for stage transitions. A nil *Logger is valid and
// falls back to slog.Default(), so packages that don't care about
// logging never need to construct a no-op implementation.
package esilog

import (
	"log/slog"
)

// Logger is a thin, pipeline-scoped wrapper over *slog.Logger.
type Logger struct {
	base *slog.Logger
}

// New wraps base. A nil base defers to slog.Default() at call time.
func New(base *slog.Logger) *Logger {
	return &Logger{base: base}
}

func (l *Logger) handle() *slog.Logger {
	if l == nil || l.base == nil {
		return slog.Default()
	}
	return l.base
}

// Info logs a stage transition (§4 data flow steps).
func (l *Logger) Info(msg string, args ...any) {
	l.handle().Info(msg, args...)
}

// Warn logs an absorbed numeric degeneracy (§7 NumericDegenerate,
// PointRejected): lambdaMax clamped, a non-SPD 3x3 zero-scaled, an
// eLORETA iteration committed past convergence, a solution point
// rejected.
func (l *Logger) Warn(msg string, args ...any) {
	l.handle().Warn(msg, args...)
}
