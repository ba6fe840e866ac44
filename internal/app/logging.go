// Package app wires the editing session to the terminal, the config and
// the file system.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error or disabled.
	Level string
	// Output is where logs are written. Nil discards logs.
	Output io.Writer
	// Prefix is attached to every entry as the "app" field.
	Prefix string
}

// DefaultLoggerConfig returns the default logger configuration.
// Logs are discarded by default since the terminal belongs to the editor.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Output: io.Discard,
		Prefix: "ropedit",
	}
}

// ParseLogLevel parses a level name. Unknown names map to info.
func ParseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "warning":
		return zerolog.WarnLevel
	case "":
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// NewLogger creates a logger from the configuration.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	ctx := zerolog.New(out).Level(ParseLogLevel(cfg.Level)).With().Timestamp()
	if cfg.Prefix != "" {
		ctx = ctx.Str("app", cfg.Prefix)
	}
	return ctx.Logger()
}

// OpenLogFile opens path for appending log entries. The caller closes it.
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// WithField returns a child logger carrying one extra field.
func WithField(l zerolog.Logger, key string, value any) zerolog.Logger {
	return l.With().Interface(key, value).Logger()
}
