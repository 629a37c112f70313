// Package obslog provides the opt-in structured logger threaded through a
// single encode session: a thin wrapper over log/slog tagged with a
// correlation id so the sub-stages of one BuildAndEncodeHistograms call
// (LZ77 pre-pass, clustering, method selection, token writing) can be
// tied together in the log output.
//
// Reference: github.com/ethereum/go-ethereum's log package -- leveled,
// attribute-based logging over log/slog with a handler the caller
// supplies. This wrapper is considerably smaller (no vmodule, no glog
// handler) since there is no CLI-wide verbosity story to replicate here;
// only the session-tagging idiom is carried over.
package obslog

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps a *slog.Logger pre-bound with a session id. A nil *Logger
// is valid and every method on it is a no-op, so hot-path code can log
// unconditionally without a caller-supplied logger paying any formatting
// cost.
type Logger struct {
	inner     *slog.Logger
	sessionID string
}

// New wraps handler with a fresh session id. A nil handler yields a
// silent logger (every call becomes a no-op), the same "logging is
// opt-in" contract the rest of this package's callers rely on.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		return nil
	}
	sessionID := uuid.NewString()
	return &Logger{
		inner:     slog.New(handler).With("session_id", sessionID),
		sessionID: sessionID,
	}
}

// NewText is a convenience constructor for a human-readable logger
// writing to w, defaulting to os.Stderr when w is nil.
func NewText(w *os.File) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(slog.NewTextHandler(w, nil))
}

// SessionID returns the correlation id this logger tags every line with,
// or "" for a nil Logger.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// Stage returns a child logger tagged with the named pipeline stage
// (e.g. "lz77", "cluster", "method_select", "write_tokens"), so log lines
// from concurrent or interleaved stages stay attributable.
func (l *Logger) Stage(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{inner: l.inner.With("stage", name), sessionID: l.sessionID}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Error(msg, args...)
}

// Enabled reports whether a log line at level would actually be emitted,
// letting a hot-path caller skip building expensive attributes entirely
// when it won't be.
func (l *Logger) Enabled(level slog.Level) bool {
	if l == nil {
		return false
	}
	return l.inner.Enabled(context.Background(), level)
}
