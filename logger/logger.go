// Package logger defines the logging collaborator used by the bridge and the
// Quip client, together with a zerolog-backed implementation.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger receives structured messages from the call engine. keyvals must
// alternate string keys and arbitrary values.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Error(msg string, err error, keyvals ...any)
}

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
type ZeroLogger struct {
	zlog zerolog.Logger
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to stderr with the given level.
// If pretty is true, output is formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithWriter(os.Stderr, level, pretty)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, pretty bool) *ZeroLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(zLevel)
	return &ZeroLogger{zlog: l}
}

// FromZerolog adapts an existing zerolog.Logger.
func FromZerolog(l zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{zlog: l}
}

func (l *ZeroLogger) Debug(msg string, keyvals ...any) {
	l.zlog.Debug().Fields(keyvals).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, keyvals ...any) {
	event := l.zlog.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Fields(keyvals).Msg(msg)
}

// With returns a logger that adds keyvals to every entry.
func (l *ZeroLogger) With(keyvals ...any) *ZeroLogger {
	return &ZeroLogger{zlog: l.zlog.With().Fields(keyvals).Logger()}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Error(string, error, ...any) {}

// Nop discards everything.
var Nop Logger = nopLogger{}
