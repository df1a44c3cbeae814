// ============================================================================
// relox - Lox expression interpreter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/pkg/core/config"
)

var (
	// Files opened for log output, closed by CloseOutputs
	openOutputs   []*os.File
	openOutputsMu sync.Mutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: console)
	Format string

	// Output destination: stdout, stderr or a file path (default: stderr)
	Output string

	// NoColor downgrades console output to plain text
	NoColor bool

	// Writer overrides Output when set
	Writer io.Writer

	// Additional outputs besides the primary one
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "console",
		Output:      "stderr",
	}
}

// FromConfig builds a LoggerConfig from the [log] section
func FromConfig(serviceName string, cfg config.LogConfig) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       cfg.Level,
		Format:      cfg.Format,
		Output:      cfg.Output,
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) (*mdwlog.Logger, error) {
	// Determine log level
	level := parseLevel(cfg.Level)

	output := cfg.Writer
	if output == nil {
		w, err := openOutput(cfg.Output)
		if err != nil {
			return nil, err
		}
		output = w
	}

	// Add additional outputs if specified
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	// Determine format
	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatConsole
	}
	if cfg.NoColor && format == mdwlog.FormatConsole {
		format = mdwlog.FormatText
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	}), nil
}

// NewSimpleLogger creates a console logger on stderr
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	cfg := DefaultLoggerConfig(serviceName)
	cfg.Writer = os.Stderr
	logger, _ := NewLogger(cfg)
	return logger
}

// CloseOutputs closes every file opened for log output
func CloseOutputs() error {
	openOutputsMu.Lock()
	defer openOutputsMu.Unlock()

	var firstErr error
	for _, f := range openOutputs {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	openOutputs = nil
	return firstErr
}

func openOutput(name string) (io.Writer, error) {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard", "none":
		return io.Discard, nil
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %s: %w", name, err)
	}

	openOutputsMu.Lock()
	openOutputs = append(openOutputs, f)
	openOutputsMu.Unlock()
	return f, nil
}

// parseLevel converts a string level to mdwlog.Level, falling back to info
func parseLevel(level string) mdwlog.Level {
	l, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelInfo
	}
	return l
}

// Compatibility layer for code using key-value logging

// Logger wraps the Foundation logger with key-value methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a new key-value logger on stderr
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing Foundation logger
func Wrap(logger *mdwlog.Logger) *Logger {
	return &Logger{Logger: logger, name: logger.Name()}
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	mdwLevel := mdwlog.LevelInfo
	switch level {
	case LevelDebug:
		mdwLevel = mdwlog.LevelDebug
	case LevelInfo:
		mdwLevel = mdwlog.LevelInfo
	case LevelWarn:
		mdwLevel = mdwlog.LevelWarn
	case LevelError:
		mdwLevel = mdwlog.LevelError
	}

	return &Logger{
		Logger: l.Logger.WithLevel(mdwLevel),
		name:   l.name,
	}
}

// With returns a logger carrying the given key-value pairs
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
