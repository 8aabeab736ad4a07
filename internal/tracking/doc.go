// Package tracking persists the record of builds the watcher has already
// seen.
//
// State is a plain JSON document holding the tracked build map, the last
// check timestamp, and a counter of completed checks. Load never fails: a
// missing or corrupt file yields a fresh empty state with a logged warning
// so one bad file cannot wedge detection. Save increments the check counter,
// stamps the current time, and replaces the file atomically under an
// exclusive lock; failures there are surfaced because downstream automation
// depends on the file being durable.
package tracking
