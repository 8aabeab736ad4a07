// Package detection coordinates release detection passes.
//
// The Detector loads the tracking state, fans out to the configured release
// sources, folds their candidates into a deduplicated set of genuinely new
// builds, and persists the grown state. A failing source is logged and
// skipped rather than aborting the pass, so one flaky upstream cannot stall
// the others. An interval guard skips unforced passes that run too soon
// after the previous one; forced passes always query.
//
// The Detector only produces data. Rendering the build matrix, writing the
// automation hand-off file, and announcing new builds are the caller's
// responsibility, which keeps this package free of output-format concerns.
package detection
