// Package logging assembles structured slog loggers and formatting helpers used
// across trmnl.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including the size-rotated daemon log file), and exposes
// context-aware helpers so request handlers can tag log lines with correlation
// and device identifiers. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
