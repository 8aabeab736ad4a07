package preflight

import (
	"context"

	"github.com/ttfeeac/tiny11-automated/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckWritableFile("Tracking file", cfg.Paths.TrackingFile),
		CheckWritableFile("Output file", cfg.Paths.OutputFile),
		CheckListingAPI(ctx, cfg.Detection.APIBase),
	}
	return results
}
