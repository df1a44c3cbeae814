// Package log provides structured logging for relox.
//
// Package: log
// Title: Structured Logging
// Description: Leveled, structured logger with immutable contextual clones,
//              pluggable formatters (JSON, text, console, logfmt) and a timer
//              helper used to measure the scan, parse and evaluate stages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Removed async buffering, deterministic field order
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	scanLog := logger.WithField("component", "lox-scanner")
//	scanLog.Debug("Scan finished", log.Fields{"tokens": 12})
//
//	timer := logger.StartTimer("evaluate")
//	defer timer.Stop()
package log
