package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ttfeeac/tiny11-automated/internal/history"
	"github.com/ttfeeac/tiny11-automated/internal/testsupport"
)

func recordRuns(t *testing.T, env *cliTestEnv, runs ...history.Run) {
	t.Helper()
	store := testsupport.MustOpenHistory(t, env.cfg)
	for _, run := range runs {
		if err := store.RecordRun(context.Background(), run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}
}

func sampleHistoryRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:          id,
		StartedAt:   started,
		FinishedAt:  started.Add(750 * time.Millisecond),
		Examined:    12,
		NewCount:    1,
		NewBuildIDs: []string{"aaaa-0001"},
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, stderr, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history failed: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, stdout, "No recorded runs")
}

func TestHistoryRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	recordRuns(t, env, sampleHistoryRun("0f47c1aa-9c2e-4f8d-b7a1-5d2e9c4b1f03", started))

	stdout, stderr, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history failed: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, stdout, "0f47c1aa")
	requireContains(t, stdout, "2026-03-14T09:30:00Z")
	requireContains(t, stdout, "750ms")
}

func TestHistoryJSONNewestFirst(t *testing.T) {
	env := setupCLITestEnv(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	recordRuns(t, env,
		sampleHistoryRun("11111111-1111-4111-8111-111111111111", base),
		sampleHistoryRun("22222222-2222-4222-8222-222222222222", base.Add(time.Hour)),
	)

	stdout, stderr, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history failed: %v (stderr: %s)", err, stderr)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("parse JSON output: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "22222222-2222-4222-8222-222222222222" {
		t.Fatalf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestHistoryLimitFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	recordRuns(t, env,
		sampleHistoryRun("11111111-1111-4111-8111-111111111111", base),
		sampleHistoryRun("22222222-2222-4222-8222-222222222222", base.Add(time.Hour)),
		sampleHistoryRun("33333333-3333-4333-8333-333333333333", base.Add(2*time.Hour)),
	)

	stdout, stderr, err := runCLI(t, []string{"history", "--limit", "2", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history failed: %v (stderr: %s)", err, stderr)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("parse JSON output: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	stdout, stderr, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history failed: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, stdout, "Run history is disabled")
}
