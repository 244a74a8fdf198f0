// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for console output on w at the given level and
// returns the logger. Unknown level strings fall back to warn so a typo
// never floods or silences a run.
func Setup(level string, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// ParseLevel converts a level string to a zerolog level. The default is warn:
// progress reporting already covers the happy path on stderr.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "none", "off":
		return zerolog.Disabled
	}
	return zerolog.WarnLevel
}
