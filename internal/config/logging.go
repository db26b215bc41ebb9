package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// serviceName tags every log line so console output can be told apart
// from platform logs when both land in the same sink.
const serviceName = "organizer-console"

// NewLogger builds the console's root logger from the logging config.
// JSON output by default; the console format is for local development.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	return newLoggerTo(os.Stdout, cfg)
}

func newLoggerTo(w io.Writer, cfg LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	output := w
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
		}
	}

	logger := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	log.Logger = logger
	return logger
}
