// Package logging provides structured logging for reactpage built on zerolog.
//
// Loggers are created once at startup from a Config and passed down either
// explicitly or through a context.Context. Components attach a "component"
// field via ComponentLogger so log lines can be filtered per subsystem.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	// Invalid or empty values fall back to "info".
	Level string

	// Format selects console (human-readable) or json output.
	// Unknown values fall back to console.
	Format string

	// File is an optional path; when set, log output is appended to the
	// file instead of stderr.
	File string
}

// New builds a zerolog.Logger from cfg. When cfg.File cannot be opened the
// logger falls back to stderr and the returned error reports the failure;
// the logger is always usable.
func New(cfg Config) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	var openErr error
	if cfg.File != "" {
		f, ferr := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if ferr != nil {
			openErr = ferr
		} else {
			out = f
		}
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return logger, openErr
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
