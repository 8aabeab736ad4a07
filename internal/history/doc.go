// Package history persists detection run outcomes to SQLite.
//
// Each detection pass records one row: when it ran, whether it was forced,
// whether the interval guard skipped it, how many listing entries it
// examined, and which build identifiers were new. The store is optional;
// when history is disabled in the configuration Open returns a nil store
// whose methods are safe to call and record nothing.
package history
