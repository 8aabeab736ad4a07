// Package logging assembles the structured slog loggers shared by the
// release watcher's components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so detection code tags log lines
// with source names and run identifiers consistently. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
