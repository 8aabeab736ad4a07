// Package notifications delivers detection events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set. The
// per-event toggles in the notifications config section let operators keep
// error alerts while silencing routine detection messages, or the reverse.
//
// Extend this package if you need alternative transports; detection code
// depends only on the simple Service interface.
package notifications
