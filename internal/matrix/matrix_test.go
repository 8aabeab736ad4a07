package matrix_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ttfeeac/tiny11-automated/internal/matrix"
	"github.com/ttfeeac/tiny11-automated/internal/release"
)

func TestBuildCrossProductSize(t *testing.T) {
	releases := []release.Release{
		{BuildID: "a", Version: "24H2", BuildNumber: "26100.1", Title: "Windows 11 A"},
		{BuildID: "b", Version: "25H2", BuildNumber: "26200.1", Title: "Windows 11 B"},
	}

	m := matrix.Build(releases)
	want := len(releases) * len(matrix.Variants) * len(matrix.EditionCodes)
	if len(m.Include) != want {
		t.Fatalf("expected %d entries, got %d", want, len(m.Include))
	}
}

func TestBuildEntryFields(t *testing.T) {
	rel := release.Release{
		BuildID:     "uuid-1",
		Version:     "24H2",
		BuildNumber: "26100.1000",
		ISOURL:      "https://uupdump.example/download.php?id=uuid-1",
		Title:       "Windows 11, version 24H2 (26100.1000)",
	}

	m := matrix.Build([]release.Release{rel})
	if len(m.Include) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(m.Include))
	}

	variantEditions := map[string]map[int]bool{}
	for _, entry := range m.Include {
		if entry.Version != "24H2" || entry.Build != "26100.1000" || entry.ISOURL != rel.ISOURL {
			t.Fatalf("entry lost release fields: %+v", entry)
		}
		if entry.Title != "Windows_11,_version_24H2_26100.1000" {
			t.Fatalf("unexpected slug %q", entry.Title)
		}
		wantName := "Pro"
		if entry.Edition == matrix.EditionHome {
			wantName = "Home"
		}
		if entry.EditionName != wantName {
			t.Fatalf("edition %d named %q, want %q", entry.Edition, entry.EditionName, wantName)
		}
		if variantEditions[entry.BuildType] == nil {
			variantEditions[entry.BuildType] = map[int]bool{}
		}
		variantEditions[entry.BuildType][entry.Edition] = true
	}

	for _, variant := range matrix.Variants {
		for _, edition := range matrix.EditionCodes {
			if !variantEditions[variant][edition] {
				t.Fatalf("missing combination %s/%d", variant, edition)
			}
		}
	}
}

func TestBuildWireShape(t *testing.T) {
	m := matrix.Build([]release.Release{{Version: "24H2", BuildNumber: "26100.1", Title: "t"}})
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal matrix: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, `{"include":[`) {
		t.Fatalf("unexpected wire shape: %s", text)
	}
	for _, field := range []string{`"version"`, `"build"`, `"iso_url"`, `"build_type"`, `"edition"`, `"edition_name"`, `"title"`} {
		if !strings.Contains(text, field) {
			t.Fatalf("expected %s in matrix JSON, got %s", field, text)
		}
	}
}

func TestBuildEmptyInput(t *testing.T) {
	m := matrix.Build(nil)
	if len(m.Include) != 0 {
		t.Fatalf("expected no entries, got %d", len(m.Include))
	}
}

func TestEditionName(t *testing.T) {
	if matrix.EditionName(matrix.EditionHome) != "Home" {
		t.Fatal("edition 1 should be Home")
	}
	if matrix.EditionName(matrix.EditionPro) != "Pro" {
		t.Fatal("edition 6 should be Pro")
	}
	// Unknown codes fall back to Pro, mirroring the two-way split upstream.
	if matrix.EditionName(99) != "Pro" {
		t.Fatal("unknown edition should fall back to Pro")
	}
}
