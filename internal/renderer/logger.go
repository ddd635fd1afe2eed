package renderer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

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

// SetLogger installs the package logger. By default nothing is logged; nil
// restores that. Renderers created afterwards, and their backends and
// compositors, log through l unless given their own logger with WithLogger.
//
// Levels used:
//   - [slog.LevelDebug]: buffer sizes, per-frame binning stats
//   - [slog.LevelInfo]: setup, scene loads
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(target any, l *slog.Logger) {
	if ls, ok := target.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
