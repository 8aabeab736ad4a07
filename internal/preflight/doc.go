// Package preflight provides readiness checks for the filesystem paths and
// the listing endpoint that release detection depends on.
//
// These checks run in two contexts:
//   - The CLI "releasewatch status" command displays them so an operator can
//     see at a glance why scheduled runs might be failing.
//   - Automation can run them before a detection pass to fail fast on a
//     misconfigured host instead of half-completing a run.
//
// Checks never mutate anything; creating missing directories stays the job
// of config.EnsureDirectories.
package preflight
