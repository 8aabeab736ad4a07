// Package main hosts the releasewatch CLI entrypoint and command graph.
//
// The Cobra-based command tree runs detection passes, inspects and edits the
// tracked release set, renders run history, and scaffolds configuration. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
