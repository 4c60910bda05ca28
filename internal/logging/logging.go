// Package logging builds the zerolog loggers used for diagnostics.
// User-facing results go to the CLI's stdout, not through these loggers.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Level resolves the log level from the CLI verbosity flags.
// Quiet wins over verbose.
func Level(verbose, quiet bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.ErrorLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.WarnLevel
	}
}

// New returns a console logger writing to w, tagged with a fresh run id.
func New(w io.Writer, verbose, quiet bool) zerolog.Logger {
	return NewWithRunID(w, verbose, quiet, uuid.NewString())
}

// NewWithRunID is New with a caller-supplied run id.
func NewWithRunID(w io.Writer, verbose, quiet bool, runID string) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}
	return zerolog.New(out).
		Level(Level(verbose, quiet)).
		With().
		Timestamp().
		Str("run", runID).
		Logger()
}

// Nop returns a disabled logger.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
