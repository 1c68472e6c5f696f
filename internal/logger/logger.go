// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environments recognised by Init.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Init sets the global logger for env and level, writing to w, and returns
// it. Development writes human-readable lines; any other env writes JSON. An
// empty or unknown level falls back to info.
func Init(w io.Writer, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := w
	if env == EnvDevelopment {
		out = zerolog.ConsoleWriter{Out: w}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(parseLevel(level))
	return log.Logger
}

func parseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
