// Package logging assembles structured slog loggers and formatting helpers used
// across fluids.
//
// It owns the console and JSON handlers, centralizes level and output routing,
// and exposes attribute helpers so components tag log lines with the same keys
// (component, event_type, error_hint, impact). A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
