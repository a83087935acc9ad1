package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func New(level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter falls back to info when level does not parse.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(lvl)
}
