// Package uupdump queries the UUP dump listing API for new builds.
//
// The listing endpoint returns a nested document whose "builds" section maps
// numeric-string keys to build details. The fetcher validates that shape
// defensively, examines only the newest entries, and normalizes matching
// builds into release records. Malformed sections and entries degrade to
// zero results; they never abort a detection run.
package uupdump

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/release"
	"github.com/ttfeeac/tiny11-automated/internal/sources"
	"github.com/ttfeeac/tiny11-automated/internal/versionid"
)

const (
	defaultMaxBuilds = 30
	defaultTimeout   = 30 * time.Second
	defaultLanguage  = "en-us"
	defaultArch      = "amd64"
)

// Options configures the listing query and the normalization of results.
type Options struct {
	APIBase      string
	DownloadBase string
	SearchTerm   string
	Language     string
	Architecture string
	MaxBuilds    int
	Timeout      time.Duration
}

// Source fetches candidate builds from the UUP dump listing API.
type Source struct {
	apiBase      string
	downloadBase string
	searchTerm   string
	language     string
	architecture string
	maxBuilds    int
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
}

var _ sources.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// New creates a UUP dump source.
func New(opts Options, logger *slog.Logger, srcOpts ...Option) (*Source, error) {
	apiBase := strings.TrimRight(strings.TrimSpace(opts.APIBase), "/")
	if apiBase == "" {
		return nil, errors.New("uupdump api base required")
	}
	downloadBase := strings.TrimRight(strings.TrimSpace(opts.DownloadBase), "/")
	if downloadBase == "" {
		return nil, errors.New("uupdump download base required")
	}
	searchTerm := strings.TrimSpace(opts.SearchTerm)
	if searchTerm == "" {
		return nil, errors.New("uupdump search term required")
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = defaultLanguage
	}
	architecture := strings.TrimSpace(opts.Architecture)
	if architecture == "" {
		architecture = defaultArch
	}
	maxBuilds := opts.MaxBuilds
	if maxBuilds <= 0 {
		maxBuilds = defaultMaxBuilds
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	src := &Source{
		apiBase:      apiBase,
		downloadBase: downloadBase,
		searchTerm:   searchTerm,
		language:     language,
		architecture: architecture,
		maxBuilds:    maxBuilds,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logging.NewComponentLogger(logger, "uupdump"),
		now:          time.Now,
	}
	for _, opt := range srcOpts {
		opt(src)
	}
	return src, nil
}

// Name identifies the backend in logs.
func (s *Source) Name() string { return "uupdump" }

// listResponse models the listing document down to the builds section.
// Entries stay raw so one malformed build cannot fail the whole decode.
type listResponse struct {
	Response *struct {
		Builds map[string]json.RawMessage `json:"builds"`
	} `json:"response"`
}

// buildDetail is one entry of the builds section.
type buildDetail struct {
	UUID  string `json:"uuid"`
	Title string `json:"title"`
	Build string `json:"build"`
	Arch  string `json:"arch"`
}

// Fetch queries the listing endpoint and returns new matching builds.
func (s *Source) Fetch(ctx context.Context, tracked sources.TrackedSet) ([]release.Release, error) {
	endpoint, err := url.Parse(s.apiBase + "/listid.php")
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}
	params := url.Values{}
	params.Set("search", s.searchTerm)
	params.Set("sortByDate", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := s.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing response: %w", err)
	}
	if payload.Response == nil || payload.Response.Builds == nil {
		s.logger.Warn("listing response missing builds section")
		return nil, nil
	}

	builds := payload.Response.Builds
	s.logger.Debug("listing fetched",
		logging.Int("total_builds", len(builds)),
		logging.Duration("latency", latency))

	// The listing keys are numeric strings. Sort ascending by value, raw
	// key as tie-break, and bound work to the first maxBuilds entries.
	keys := make([]string, 0, len(builds))
	for key := range builds {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := numericKey(keys[i]), numericKey(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	if len(keys) > s.maxBuilds {
		keys = keys[:s.maxBuilds]
	}

	var releases []release.Release
	processed := 0
	for _, key := range keys {
		var detail buildDetail
		if err := json.Unmarshal(builds[key], &detail); err != nil {
			s.logger.Warn("skipping malformed build entry",
				logging.String("key", key),
				logging.Error(err))
			continue
		}
		processed++

		if !strings.Contains(detail.Title, s.searchTerm) || detail.Arch != s.architecture {
			continue
		}
		if detail.UUID == "" {
			s.logger.Warn("skipping build without identifier", logging.String("title", detail.Title))
			continue
		}
		if tracked != nil && tracked.Contains(detail.UUID) {
			continue
		}

		rel := s.newRelease(detail)
		releases = append(releases, rel)
		s.logger.Info("found new build",
			logging.String(logging.FieldBuildID, rel.BuildID),
			logging.String(logging.FieldVersion, rel.Version),
			logging.String("title", rel.Title))
	}

	s.logger.Info("listing processed",
		logging.Int("examined", processed),
		logging.Int("new", len(releases)))
	return releases, nil
}

func (s *Source) newRelease(detail buildDetail) release.Release {
	buildNumber := detail.Build
	if buildNumber == "" {
		buildNumber = "Unknown"
	}
	channel := release.ChannelRetail
	if strings.Contains(detail.Title, "Insider") {
		channel = release.ChannelInsider
	}
	return release.Release{
		BuildID:     detail.UUID,
		BuildNumber: buildNumber,
		Version:     versionid.FromTitle(detail.Title),
		Title:       detail.Title,
		ISOURL: fmt.Sprintf("%s/download.php?id=%s&pack=%s&edition=professional",
			s.downloadBase, detail.UUID, s.language),
		DetectedDate: s.now().UTC(),
		Architecture: detail.Arch,
		Channel:      channel,
		Language:     s.language,
	}
}

func numericKey(key string) int64 {
	if key == "" {
		return 0
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0
		}
	}
	value, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
