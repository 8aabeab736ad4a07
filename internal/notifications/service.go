package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/release"
)

const userAgent = "releasewatch/0.1.0"

// Service defines the notification surface exposed to detection runs.
type Service interface {
	NotifyReleasesDetected(ctx context.Context, releases []release.Release) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:         topic,
		client:           client,
		notifyDetections: cfg.Notifications.Detections,
		notifyErrors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint         string
	client           *http.Client
	notifyDetections bool
	notifyErrors     bool
}

func (n *ntfyService) NotifyReleasesDetected(ctx context.Context, releases []release.Release) error {
	if !n.notifyDetections || len(releases) == 0 {
		return nil
	}

	var message string
	if len(releases) == 1 {
		message = fmt.Sprintf("🆕 New build detected: %s", describeRelease(releases[0]))
	} else {
		var builder strings.Builder
		fmt.Fprintf(&builder, "🆕 %d new builds detected:", len(releases))
		for _, rel := range releases {
			builder.WriteString("\n")
			builder.WriteString(describeRelease(rel))
		}
		message = builder.String()
	}

	data := payload{
		title:    "Release Watch - New Builds",
		message:  message,
		tags:     []string{"releasewatch", "detect", "new"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.notifyErrors {
		return nil
	}

	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Release Watch - Error",
		message:  builder.String(),
		tags:     []string{"releasewatch", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Release Watch - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"releasewatch", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func describeRelease(rel release.Release) string {
	version := strings.TrimSpace(rel.Version)
	if version == "" {
		version = "Unknown"
	}
	return fmt.Sprintf("Windows %s build %s (%s)", version, rel.BuildNumber, rel.Channel)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReleasesDetected(context.Context, []release.Release) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
