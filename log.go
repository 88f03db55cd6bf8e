package wicket

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger wicket uses for diagnostics. The package is
// silent by default; pass nil to silence it again. Hot-path events (skipped
// branches, budget exhaustion) are logged at Debug level only.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the logger installed with SetLogger.
func Logger() *slog.Logger {
	return logger.Load()
}

// nopHandler discards every record. Keeps Logger() non-nil so call sites
// never check.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
