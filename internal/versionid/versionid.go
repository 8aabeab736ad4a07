// Package versionid derives a human-readable Windows version label from a
// build's free-text title.
//
// Classification runs in strict priority order: an explicit "version NNHN"
// token, a standalone NNHN token, a parenthesized five-digit build number
// mapped through a fixed range table, then a generic insider/preview
// fallback. The result is always a non-empty label; titles that match
// nothing classify as Unknown.
//
// The range table is inherited as-is and checked first-match-wins. Two pairs
// of entries overlap (25H2 shadows Insider-26H2 for builds 26220-26999, and
// 22H2 shadows 23H2 for builds 22631-22999). Keep the order intact when
// adding entries; reordering changes the label for builds in the shadowed
// spans.
package versionid

import (
	"regexp"
	"strconv"
	"strings"
)

// Labels returned for titles that only match the weak fallbacks.
const (
	InsiderPreviewLabel = "Insider-Preview"
	UnknownLabel        = "Unknown"
)

var (
	explicitVersion = regexp.MustCompile(`(?i)version\s+(\d{2}H\d)`)
	bareVersion     = regexp.MustCompile(`(?i)\b(\d{2}H\d)\b`)
	buildInParens   = regexp.MustCompile(`\((\d{5})`)
)

// buildRange maps a half-open build number interval [lo, hi) to a label.
type buildRange struct {
	lo, hi int
	label  string
}

// TODO: split the overlapping 26xxx entries once 26H2 build numbering is announced.
var buildRanges = []buildRange{
	{26200, 27000, "25H2"},
	{26100, 26200, "24H2"},
	{26220, 27000, "Insider-26H2"},
	{28000, 29000, "Insider-28xxx"},
	{22621, 23000, "22H2"},
	{22631, 23000, "23H2"},
}

// FromTitle returns the best-effort version label for a build title.
func FromTitle(title string) string {
	if m := explicitVersion.FindStringSubmatch(title); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := bareVersion.FindStringSubmatch(title); m != nil {
		return strings.ToUpper(m[1])
	}

	if m := buildInParens.FindStringSubmatch(title); m != nil {
		if build, err := strconv.Atoi(m[1]); err == nil {
			for _, r := range buildRanges {
				if build >= r.lo && build < r.hi {
					return r.label
				}
			}
		}
	}

	lower := strings.ToLower(title)
	if strings.Contains(lower, "insider") || strings.Contains(lower, "preview") {
		return InsiderPreviewLabel
	}

	return UnknownLabel
}
