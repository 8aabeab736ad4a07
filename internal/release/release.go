// Package release defines the build release record shared across the
// detection pipeline.
//
// A Release is the normalized form of one distributable build discovered at a
// listing source. BuildID is the sole identity used for deduplication and
// tracking; every other field is descriptive and may be recomputed from
// source data.
package release

import (
	"strings"
	"time"
)

// Channel values distinguish the distribution track a build ships on.
const (
	ChannelRetail  = "retail"
	ChannelInsider = "insider"
)

// Release describes one detected build.
type Release struct {
	BuildID        string    `json:"build_id"`
	BuildNumber    string    `json:"build_number"`
	Version        string    `json:"version"`
	Title          string    `json:"title"`
	ISOURL         string    `json:"iso_url"`
	DetectedDate   time.Time `json:"detected_date"`
	Architecture   string    `json:"architecture"`
	Channel        string    `json:"channel"`
	Language       string    `json:"language"`
	ChecksumSHA256 string    `json:"checksum_sha256,omitempty"`
	SizeBytes      int64     `json:"size_bytes,omitempty"`
}

var slugReplacer = strings.NewReplacer(" ", "_", "(", "", ")", "")

// TitleSlug returns a filesystem-safe form of the title: spaces become
// underscores and parentheses are stripped.
func (r Release) TitleSlug() string {
	return slugReplacer.Replace(r.Title)
}

// IsInsider reports whether the release belongs to the insider channel.
func (r Release) IsInsider() bool {
	return r.Channel == ChannelInsider
}
