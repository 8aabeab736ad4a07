package testsupport

import (
	"testing"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/history"
	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/tracking"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTrackingStore builds a tracking store rooted in the test config's
// tracking file with logging discarded.
func NewTrackingStore(t testing.TB, cfg *config.Config) *tracking.Store {
	t.Helper()
	return tracking.NewStore(cfg.Paths.TrackingFile, logging.NewNop())
}
