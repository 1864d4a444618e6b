package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger at the given level. Unparseable
// levels default to info.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "sustainpack").
		Logger()
}
