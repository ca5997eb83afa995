package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-markrender/internal/config"
)

// newLogger builds the process logger from cfg. quiet and verbose override
// the configured level.
func newLogger(w io.Writer, cfg config.LogConfig, quiet, verbose bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.ErrorLevel
	}

	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
