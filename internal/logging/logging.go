// Package logging configures the zerolog-based logging system for Swara.
// Console output goes to stderr through a human-readable writer; an optional
// file sink receives the same events as JSON for later troubleshooting.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// fileSink is the file writer opened by Setup, kept so Quiet can drop the
// console while preserving file output.
var fileSink io.Writer

// Setup initializes the global logger. level is one of debug, info, warn,
// error. If file is non-empty, log events are additionally appended there.
func Setup(level, file string) error {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	fileSink = nil
	var w io.Writer = console
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		fileSink = f
		w = zerolog.MultiLevelWriter(console, f)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// Quiet drops console output, keeping only the file sink (if any). Used by
// the REPL so log lines do not interleave with the prompt.
func Quiet() {
	w := fileSink
	if w == nil {
		w = io.Discard
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
