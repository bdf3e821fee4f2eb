// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/config"
)

// ServiceName is attached to every log line as the "service" field.
const ServiceName = "feedrank"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	Level string

	// Format is json or console.
	Format string

	Caller bool

	// Version, when set, is attached to every log line.
	Version string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used before Init runs.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

// ConfigFrom maps the logging section of the service config.
func ConfigFrom(cfg *config.LoggingConfig, version string) Config {
	out := DefaultConfig()
	if cfg.Level != "" {
		out.Level = cfg.Level
	}
	if cfg.Format != "" {
		out.Format = cfg.Format
	}
	out.Caller = cfg.Caller
	out.Version = version
	return out
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	log = newLogger(DefaultConfig())
}

// Init (re)configures the global logger. Safe to call more than once.
func Init(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

func newLogger(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(output).With().Timestamp().Str("service", ServiceName)
	if cfg.Version != "" {
		lc = lc.Str("version", cfg.Version)
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	return lc.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger. Used by tests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

func current() *zerolog.Logger {
	l := Logger()
	return &l
}

// Info starts an info level message on the global logger.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warn level message on the global logger.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error level message on the global logger.
func Error() *zerolog.Event { return current().Error() }

// Fatal starts a fatal level message; os.Exit(1) follows the write.
func Fatal() *zerolog.Event { return current().Fatal() }

// NewTestLogger creates a JSON logger writing to w.
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
