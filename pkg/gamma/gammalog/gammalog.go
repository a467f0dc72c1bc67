// Package gammalog wraps an optional zerolog.Logger for boundary-level
// events inside the gamma packages. A nil logger is a silent no-op, so
// callers never need a sentinel "disabled" logger of their own.
package gammalog

import "github.com/rs/zerolog"

// Logger is an optional zerolog.Logger. The zero value logs nothing.
type Logger struct {
	log *zerolog.Logger
}

// New wraps log. A nil log produces a Logger that discards everything.
func New(log *zerolog.Logger) Logger {
	return Logger{log: log}
}

func (l Logger) enabled() bool { return l.log != nil }

// DispatchStart logs the start of a Compute dispatch.
func (l Logger) DispatchStart(op string, total, workers int) {
	if !l.enabled() {
		return
	}
	l.log.Debug().Str("op", op).Int("total", total).Int("workers", workers).Msg("dispatch start")
}

// DispatchDone logs the end of a Compute dispatch.
func (l Logger) DispatchDone(op string, computed int) {
	if !l.enabled() {
		return
	}
	l.log.Debug().Str("op", op).Int("computed", computed).Msg("dispatch done")
}

// Event logs an arbitrary debug-level boundary event with one string field.
func (l Logger) Event(msg, key, value string) {
	if !l.enabled() {
		return
	}
	l.log.Debug().Str(key, value).Msg(msg)
}
