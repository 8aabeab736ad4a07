package uupdump_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/release"
	"github.com/ttfeeac/tiny11-automated/internal/sources/uupdump"
)

type trackedSet map[string]struct{}

func (t trackedSet) Contains(id string) bool {
	_, ok := t[id]
	return ok
}

func listingServer(t *testing.T, builds map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listid.php" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("search") == "" {
			t.Fatalf("expected search query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("sortByDate") != "1" {
			t.Fatalf("expected sortByDate=1, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		payload := map[string]any{"response": map[string]any{"builds": builds}}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newSource(t *testing.T, server *httptest.Server, opts uupdump.Options) *uupdump.Source {
	t.Helper()
	opts.APIBase = server.URL
	if opts.DownloadBase == "" {
		opts.DownloadBase = "https://uupdump.example"
	}
	if opts.SearchTerm == "" {
		opts.SearchTerm = "Windows 11"
	}
	src, err := uupdump.New(opts, logging.NewNop(), uupdump.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return src
}

func TestNewRequiresEndpoints(t *testing.T) {
	if _, err := uupdump.New(uupdump.Options{DownloadBase: "https://x", SearchTerm: "W"}, logging.NewNop()); err == nil {
		t.Fatal("expected error when api base missing")
	}
	if _, err := uupdump.New(uupdump.Options{APIBase: "https://x", SearchTerm: "W"}, logging.NewNop()); err == nil {
		t.Fatal("expected error when download base missing")
	}
	if _, err := uupdump.New(uupdump.Options{APIBase: "https://x", DownloadBase: "https://y"}, logging.NewNop()); err == nil {
		t.Fatal("expected error when search term missing")
	}
}

func TestFetchReturnsMatchingBuilds(t *testing.T) {
	builds := map[string]any{
		"1": map[string]any{
			"uuid":  "match-1",
			"title": "Windows 11, version 24H2 (26100.1000)",
			"build": "26100.1000",
			"arch":  "amd64",
		},
		"2": map[string]any{
			"uuid":  "wrong-arch",
			"title": "Windows 11, version 24H2 (26100.1000)",
			"build": "26100.1000",
			"arch":  "arm64",
		},
		"3": map[string]any{
			"uuid":  "wrong-product",
			"title": "Windows 10, version 22H2",
			"build": "19045.1",
			"arch":  "amd64",
		},
		"4": map[string]any{
			"uuid":  "already-tracked",
			"title": "Windows 11, version 23H2 (22631.100)",
			"build": "22631.100",
			"arch":  "amd64",
		},
		"5": "not an object",
	}
	server := listingServer(t, builds)
	src := newSource(t, server, uupdump.Options{Language: "en-us"})

	releases, err := src.Fetch(context.Background(), trackedSet{"already-tracked": {}})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected 1 release, got %d: %+v", len(releases), releases)
	}

	rel := releases[0]
	if rel.BuildID != "match-1" {
		t.Fatalf("unexpected build id %q", rel.BuildID)
	}
	if rel.Version != "24H2" {
		t.Fatalf("unexpected version %q", rel.Version)
	}
	if rel.BuildNumber != "26100.1000" {
		t.Fatalf("unexpected build number %q", rel.BuildNumber)
	}
	if rel.Channel != release.ChannelRetail {
		t.Fatalf("unexpected channel %q", rel.Channel)
	}
	if rel.Architecture != "amd64" {
		t.Fatalf("unexpected architecture %q", rel.Architecture)
	}
	wantURL := "https://uupdump.example/download.php?id=match-1&pack=en-us&edition=professional"
	if rel.ISOURL != wantURL {
		t.Fatalf("unexpected iso url %q, want %q", rel.ISOURL, wantURL)
	}
	if rel.DetectedDate.IsZero() {
		t.Fatal("expected detected date stamped")
	}
}

func TestFetchChannelFromInsiderToken(t *testing.T) {
	builds := map[string]any{
		"1": map[string]any{
			"uuid":  "insider-build",
			"title": "Windows 11 Insider Preview 10.0.26220.1000 (ge_release)",
			"build": "26220.1000",
			"arch":  "amd64",
		},
		// The channel token match is case-sensitive; a lowercase
		// "insider" stays on the retail channel.
		"2": map[string]any{
			"uuid":  "lowercase-token",
			"title": "Windows 11 insider-adjacent build (26100.2000)",
			"build": "26100.2000",
			"arch":  "amd64",
		},
	}
	server := listingServer(t, builds)
	src := newSource(t, server, uupdump.Options{})

	releases, err := src.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}
	byID := map[string]release.Release{}
	for _, rel := range releases {
		byID[rel.BuildID] = rel
	}
	if byID["insider-build"].Channel != release.ChannelInsider {
		t.Fatalf("expected insider channel, got %q", byID["insider-build"].Channel)
	}
	if byID["lowercase-token"].Channel != release.ChannelRetail {
		t.Fatalf("expected retail channel for lowercase token, got %q", byID["lowercase-token"].Channel)
	}
}

func TestFetchExaminesOldestKeysFirstAndBoundsWork(t *testing.T) {
	builds := map[string]any{}
	for _, key := range []string{"7", "99", "100"} {
		builds[key] = map[string]any{
			"uuid":  "id-" + key,
			"title": "Windows 11 (26100.1000)",
			"build": "26100.1000",
			"arch":  "amd64",
		}
	}
	server := listingServer(t, builds)
	src := newSource(t, server, uupdump.Options{MaxBuilds: 2})

	releases, err := src.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}
	if releases[0].BuildID != "id-7" || releases[1].BuildID != "id-99" {
		t.Fatalf("expected numeric ascending order, got %q then %q", releases[0].BuildID, releases[1].BuildID)
	}
}

func TestFetchBuildNumberFallsBackToUnknown(t *testing.T) {
	builds := map[string]any{
		"1": map[string]any{
			"uuid":  "no-build-number",
			"title": "Windows 11 mystery build",
			"arch":  "amd64",
		},
	}
	server := listingServer(t, builds)
	src := newSource(t, server, uupdump.Options{})

	releases, err := src.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected 1 release, got %d", len(releases))
	}
	if releases[0].BuildNumber != "Unknown" {
		t.Fatalf("expected Unknown build number, got %q", releases[0].BuildNumber)
	}
}

func TestFetchMissingBuildsSectionYieldsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{}}`))
	}))
	t.Cleanup(server.Close)

	src, err := uupdump.New(uupdump.Options{
		APIBase:      server.URL,
		DownloadBase: "https://uupdump.example",
		SearchTerm:   "Windows 11",
	}, logging.NewNop(), uupdump.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	releases, err := src.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected missing section to degrade to zero results, got %v", err)
	}
	if len(releases) != 0 {
		t.Fatalf("expected no releases, got %d", len(releases))
	}
}

func TestFetchMalformedDocumentReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["unexpected","list"]`))
	}))
	t.Cleanup(server.Close)

	src, err := uupdump.New(uupdump.Options{
		APIBase:      server.URL,
		DownloadBase: "https://uupdump.example",
		SearchTerm:   "Windows 11",
	}, logging.NewNop(), uupdump.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := src.Fetch(context.Background(), nil); err == nil {
		t.Fatal("expected error for non-object document")
	}
}

func TestFetchServerErrorReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	src, err := uupdump.New(uupdump.Options{
		APIBase:      server.URL,
		DownloadBase: "https://uupdump.example",
		SearchTerm:   "Windows 11",
	}, logging.NewNop(), uupdump.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = src.Fetch(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error when listing returns non-200")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}
