// Package config loads, normalizes, and validates release watcher
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// UUPDUMP_API_BASE and RELEASEWATCH_NTFY_TOPIC. The Config type centralizes
// every knob the CLI needs, so tracking/output locations and endpoint
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
