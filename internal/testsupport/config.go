package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/ttfeeac/tiny11-automated/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TrackingFile = filepath.Join(base, "data", "tracked_releases.json")
	cfg.Paths.OutputFile = filepath.Join(base, "out", "github_output.txt")
	cfg.History.Path = filepath.Join(base, "data", "history.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAPIBase points the detection source at an alternate listing endpoint,
// typically an httptest server.
func WithAPIBase(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Detection.APIBase = url
	}
}

// WithNtfyTopic sets the notification topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithHistoryDisabled turns off run history recording.
func WithHistoryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = false
	}
}
