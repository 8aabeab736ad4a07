package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/release"
	"github.com/ttfeeac/tiny11-automated/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "releasewatch", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// startListingServer serves a canned UUP dump listing document.
func startListingServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listid.php" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// sampleListing contains two matching Windows 11 amd64 builds plus entries
// the fetcher must filter out (wrong product, wrong architecture).
const sampleListing = `{"response":{"builds":{
  "30001":{"uuid":"11111111-aaaa-4bbb-8ccc-000000000001","title":"Windows 11, version 24H2 (26100.4060)","build":"26100.4060","arch":"amd64"},
  "30002":{"uuid":"11111111-aaaa-4bbb-8ccc-000000000002","title":"Windows 11 Insider Preview 26220.5000 (Dev Channel)","build":"26220.5000","arch":"amd64"},
  "30003":{"uuid":"11111111-aaaa-4bbb-8ccc-000000000003","title":"Windows 10, version 22H2 (19045.3000)","build":"19045.3000","arch":"amd64"},
  "30004":{"uuid":"11111111-aaaa-4bbb-8ccc-000000000004","title":"Windows 11, version 24H2 (26100.4060)","build":"26100.4060","arch":"arm64"}
}}}`

func trackedRelease(id, title, buildNumber, version string) release.Release {
	return release.Release{
		BuildID:      id,
		BuildNumber:  buildNumber,
		Version:      version,
		Title:        title,
		ISOURL:       "https://uupdump.net/download.php?id=" + id + "&pack=en-us&edition=professional",
		DetectedDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Architecture: "amd64",
		Channel:      release.ChannelRetail,
		Language:     "en-us",
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
