package textextrude

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers
// skip building attributes altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the package.
// By default nothing is logged. Pass nil to restore that behavior.
//
// Log levels:
//   - [slog.LevelDebug]: per-glyph and per-mesh sizes, skipped templates
//   - [slog.LevelInfo]: files written
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
