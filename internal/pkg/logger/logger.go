package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
)

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup configures the process logger from LOG_LEVEL and LOG_FORMAT.
func Setup() zerolog.Logger {
	base = New(os.Stdout, env.GetEnv("LOG_LEVEL", "info"), env.GetEnv("LOG_FORMAT", "json"))
	return base
}

// New builds a logger writing to out. Unknown levels fall back to info.
func New(out io.Writer, levelStr, format string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Get returns the process logger.
func Get() zerolog.Logger {
	return base
}

// For returns a child logger tagged with a component name.
func For(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
