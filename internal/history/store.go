package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ttfeeac/tiny11-automated/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases must be deleted and recreated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one recorded detection pass.
type Run struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Forced         bool      `json:"forced"`
	Skipped        bool      `json:"skipped"`
	SourcesQueried int       `json:"sources_queried"`
	Examined       int       `json:"examined"`
	NewCount       int       `json:"new_count"`
	NewBuildIDs    []string  `json:"new_build_ids,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database. When history is
// disabled in the configuration it returns a nil store, which is safe to
// use and records nothing.
func Open(cfg *config.Config) (*Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.History.Path
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location, or "" for a nil store.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate it)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}

	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordRun inserts one detection run. It is a no-op on a nil store.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if s == nil || s.db == nil {
		return nil
	}
	if run.ID == "" {
		return errors.New("run id is empty")
	}

	var buildIDs any
	if len(run.NewBuildIDs) > 0 {
		encoded, err := json.Marshal(run.NewBuildIDs)
		if err != nil {
			return fmt.Errorf("encode build ids: %w", err)
		}
		buildIDs = string(encoded)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO detection_runs (
            id, started_at, finished_at, forced, skipped,
            sources_queried, examined, new_count, new_build_ids, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(run.Forced),
		boolToInt(run.Skipped),
		run.SourcesQueried,
		run.Examined,
		run.NewCount,
		buildIDs,
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first. A non-positive
// limit selects a default window of 20.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM detection_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastRun returns the most recent run, or nil when the history is empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM detection_runs ORDER BY started_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	return &run, nil
}

const runColumns = "id, started_at, finished_at, forced, skipped, sources_queried, examined, new_count, new_build_ids, error_message"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		id             string
		startedRaw     string
		finishedRaw    string
		forced         int
		skipped        int
		sourcesQueried int
		examined       int
		newCount       int
		buildIDsRaw    sql.NullString
		errorMessage   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&startedRaw,
		&finishedRaw,
		&forced,
		&skipped,
		&sourcesQueried,
		&examined,
		&newCount,
		&buildIDsRaw,
		&errorMessage,
	); err != nil {
		return Run{}, err
	}

	run := Run{
		ID:             id,
		Forced:         forced != 0,
		Skipped:        skipped != 0,
		SourcesQueried: sourcesQueried,
		Examined:       examined,
		NewCount:       newCount,
		ErrorMessage:   errorMessage.String,
	}
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := time.Parse(time.RFC3339Nano, finishedRaw); err == nil {
		run.FinishedAt = finished
	}
	if buildIDsRaw.Valid && buildIDsRaw.String != "" {
		if err := json.Unmarshal([]byte(buildIDsRaw.String), &run.NewBuildIDs); err != nil {
			return Run{}, fmt.Errorf("decode build ids for run %s: %w", id, err)
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
