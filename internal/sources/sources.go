// Package sources defines the fetch capability implemented by release
// listing backends.
//
// Every backend, real or placeholder, satisfies Source so the detection run
// can iterate them uniformly; adding a backend never touches the aggregator.
package sources

import (
	"context"

	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// TrackedSet answers membership queries against already-tracked build
// identifiers so fetchers can skip known builds early.
type TrackedSet interface {
	Contains(id string) bool
}

// Source produces candidate releases from one listing backend. A backend
// that finds nothing returns an empty slice; errors are isolated by the
// caller and never abort a detection run.
type Source interface {
	Name() string
	Fetch(ctx context.Context, tracked TrackedSet) ([]release.Release, error)
}

// Catalog is the Microsoft Update Catalog backend. The catalog has no JSON
// listing endpoint; fetching would require session-aware scraping, so the
// implementation stays empty until one exists.
type Catalog struct{}

// Name identifies the backend in logs.
func (Catalog) Name() string { return "microsoft-catalog" }

// Fetch returns no candidates.
func (Catalog) Fetch(context.Context, TrackedSet) ([]release.Release, error) {
	return nil, nil
}

// GitHubReleases is the backend for community ISO mirrors published as
// GitHub releases. No mirror is wired up yet, so the implementation stays
// empty.
type GitHubReleases struct{}

// Name identifies the backend in logs.
func (GitHubReleases) Name() string { return "github-releases" }

// Fetch returns no candidates.
func (GitHubReleases) Fetch(context.Context, TrackedSet) ([]release.Release, error) {
	return nil, nil
}
