// Package logging holds the slog logger shared by every vls-mesh package.
//
// By default nothing is logged. Tools call SetLogger once at startup; library
// packages call Logger() at the point of use so a later SetLogger takes effect.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled reports false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger replaces the package-wide logger. Passing nil restores the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-token decode trace, ring and subdivision sizes
//   - [slog.LevelInfo]: batch and watch lifecycle
//   - [slog.LevelWarn]: dropped, unknown or unimplemented tokens
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
