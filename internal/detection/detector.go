package detection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/release"
	"github.com/ttfeeac/tiny11-automated/internal/sources"
	"github.com/ttfeeac/tiny11-automated/internal/tracking"
)

// Result summarizes one detection pass.
type Result struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Forced         bool
	Skipped        bool
	New            []release.Release
	Candidates     int
	SourcesQueried int
	SourceErrors   int
}

// Elapsed reports how long the pass took.
func (r Result) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Detector runs detection passes and persists newly tracked builds.
type Detector struct {
	store    *tracking.Store
	sources  []sources.Source
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	runID    func() string
}

// Option configures optional Detector behavior.
type Option func(*Detector)

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// WithRunIDs overrides run identifier generation (used in tests).
func WithRunIDs(gen func() string) Option {
	return func(d *Detector) {
		if gen != nil {
			d.runID = gen
		}
	}
}

// New constructs a Detector. The check interval comes from the detection
// section of the configuration.
func New(cfg *config.Config, store *tracking.Store, srcs []sources.Source, logger *slog.Logger, opts ...Option) *Detector {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Detector{
		store:    store,
		sources:  srcs,
		logger:   logger,
		interval: time.Duration(cfg.Detection.CheckInterval) * time.Minute,
		now:      time.Now,
		runID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs one detection pass. It returns a non-nil error only when the
// grown tracking state cannot be persisted; source failures are folded into
// the Result instead.
func (d *Detector) Detect(ctx context.Context, force bool) (Result, error) {
	result := Result{
		RunID:     d.runID(),
		StartedAt: d.now(),
		Forced:    force,
	}
	logger := d.logger.With(logging.String(logging.FieldRunID, result.RunID))

	state := d.store.Load()

	if !force && !state.LastCheck.IsZero() {
		if sinceLast := result.StartedAt.Sub(state.LastCheck); sinceLast < d.interval {
			logger.Info("checked recently, skipping detection",
				logging.Duration("since_last_check", sinceLast),
				logging.Duration("check_interval", d.interval))
			result.Skipped = true
			result.FinishedAt = d.now()
			return result, nil
		}
	}

	var candidates []release.Release
	for _, src := range d.sources {
		result.SourcesQueried++
		found, err := fetchSource(ctx, src, state)
		if err != nil {
			result.SourceErrors++
			logger.Error("source fetch failed",
				logging.String(logging.FieldSource, src.Name()),
				logging.Error(err))
			continue
		}
		candidates = append(candidates, found...)
	}
	result.Candidates = len(candidates)
	result.New = collectNew(state, candidates)

	for _, rel := range result.New {
		state.Add(rel)
		logger.Info("tracking new release",
			logging.String(logging.FieldBuildID, rel.BuildID),
			logging.String(logging.FieldVersion, rel.Version),
			logging.String("channel", rel.Channel))
	}

	if err := d.store.Save(state); err != nil {
		result.FinishedAt = d.now()
		return result, fmt.Errorf("save tracking state: %w", err)
	}

	result.FinishedAt = d.now()
	logger.Info("detection pass complete",
		logging.Int("sources", result.SourcesQueried),
		logging.Int("source_errors", result.SourceErrors),
		logging.Int("candidates", result.Candidates),
		logging.Int("new", len(result.New)),
		logging.Duration("elapsed", result.Elapsed()))
	return result, nil
}

// fetchSource confines one backend's failure. A panicking backend is
// converted into an error so it cannot abort the pass or the final state
// save.
func fetchSource(ctx context.Context, src sources.Source, tracked sources.TrackedSet) (found []release.Release, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("source panic: %v", r)
		}
	}()
	return src.Fetch(ctx, tracked)
}

// collectNew filters candidates down to untracked builds, deduplicated by
// build identifier. A repeated identifier keeps its first position in the
// result but takes the later candidate's fields, so a source listed after
// another can refine what an earlier one reported.
func collectNew(tracked *tracking.State, candidates []release.Release) []release.Release {
	var ordered []release.Release
	index := make(map[string]int, len(candidates))
	for _, rel := range candidates {
		id := strings.TrimSpace(rel.BuildID)
		if id == "" || tracked.Contains(id) {
			continue
		}
		if pos, seen := index[id]; seen {
			ordered[pos] = rel
			continue
		}
		index[id] = len(ordered)
		ordered = append(ordered, rel)
	}
	return ordered
}
