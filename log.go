package theme

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().
	Timestamp().
	Str("component", "theme").
	Logger()

// SetLogger replaces the logger used for non-fatal rendering problems such
// as missing images or malformed markup.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the current package logger.
func Logger() *zerolog.Logger {
	return &logger
}
