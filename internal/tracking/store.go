package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// ErrLocked is returned when another process holds the tracking file lock.
var ErrLocked = errors.New("tracking file is locked by another process")

// Store reads and writes the tracking state file.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store for the tracking file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "tracking"),
		now:    time.Now,
	}
}

// Path returns the tracking file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the tracking state from disk. A missing or unreadable file
// yields a fresh empty state; corruption is logged as a warning, never
// returned as an error.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not read tracking file, starting fresh",
				logging.String("path", s.path),
				logging.Error(err))
		}
		return NewState()
	}

	if len(data) == 0 {
		return NewState()
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		s.logger.Warn("tracking file is corrupt, starting fresh",
			logging.String("path", s.path),
			logging.Error(err))
		return NewState()
	}
	if state.Builds == nil {
		state.Builds = make(map[string]release.Release)
	}

	s.logger.Debug("loaded tracking state",
		logging.Int("tracked", state.Count()),
		logging.Int("check_count", state.CheckCount))
	return state
}

// Save marks the completion of a detection pass: it increments the check
// counter, stamps the current time, and persists the full state.
func (s *Store) Save(state *State) error {
	state.CheckCount++
	state.LastCheck = s.now()
	return s.persist(state)
}

// Rewrite persists the state without counting a detection pass. Maintenance
// commands use it so removals do not advance the check counter.
func (s *Store) Rewrite(state *State) error {
	return s.persist(state)
}

func (s *Store) persist(state *State) error {
	if state.Builds == nil {
		state.Builds = make(map[string]release.Release)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tracking state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tracking directory: %w", err)
	}

	fileLock := flock.New(s.path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire tracking lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			s.logger.Warn("failed to release tracking lock", logging.Error(err))
		}
	}()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved tracking state",
		logging.Int("tracked", state.Count()),
		logging.Int("check_count", state.CheckCount))
	return nil
}
