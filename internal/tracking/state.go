package tracking

import (
	"sort"
	"strings"
	"time"

	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// State is the durable tracking record. Builds maps build identifier to the
// release record captured when the build was first seen.
type State struct {
	Builds     map[string]release.Release `json:"builds"`
	LastCheck  time.Time                  `json:"last_check,omitzero"`
	CheckCount int                        `json:"check_count"`
}

// NewState returns an empty tracking state.
func NewState() *State {
	return &State{Builds: make(map[string]release.Release)}
}

// Contains reports whether the build identifier is already tracked.
func (s *State) Contains(id string) bool {
	if s == nil || len(s.Builds) == 0 {
		return false
	}
	_, ok := s.Builds[strings.TrimSpace(id)]
	return ok
}

// Add records a release under its build identifier, replacing any previous
// record for the same identifier.
func (s *State) Add(rel release.Release) {
	if s.Builds == nil {
		s.Builds = make(map[string]release.Release)
	}
	s.Builds[rel.BuildID] = rel
}

// Get returns the tracked release for the given build identifier.
func (s *State) Get(id string) (release.Release, bool) {
	if s == nil || len(s.Builds) == 0 {
		return release.Release{}, false
	}
	rel, ok := s.Builds[strings.TrimSpace(id)]
	return rel, ok
}

// Remove drops the record for the given build identifier and reports whether
// it was present.
func (s *State) Remove(id string) bool {
	id = strings.TrimSpace(id)
	if _, ok := s.Builds[id]; !ok {
		return false
	}
	delete(s.Builds, id)
	return true
}

// Count returns the number of tracked builds.
func (s *State) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Builds)
}

// Releases returns the tracked releases sorted by detection time descending,
// ties broken by build identifier for stable listings.
func (s *State) Releases() []release.Release {
	if s == nil || len(s.Builds) == 0 {
		return nil
	}
	releases := make([]release.Release, 0, len(s.Builds))
	for _, rel := range s.Builds {
		releases = append(releases, rel)
	}
	sort.Slice(releases, func(i, j int) bool {
		if !releases[i].DetectedDate.Equal(releases[j].DetectedDate) {
			return releases[i].DetectedDate.After(releases[j].DetectedDate)
		}
		return releases[i].BuildID < releases[j].BuildID
	})
	return releases
}
