package main

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// displayChannel renders the wire-format channel for humans.
func displayChannel(channel string) string {
	if channel == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(channel)
}

// releaseRows renders releases for table output. With detected true the last
// column carries the detection timestamp instead of the title.
func releaseRows(releases []release.Release, detected bool) [][]string {
	rows := make([][]string, 0, len(releases))
	for _, rel := range releases {
		last := rel.Title
		if detected {
			last = rel.DetectedDate.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			rel.BuildID,
			rel.Version,
			rel.BuildNumber,
			displayChannel(rel.Channel),
			last,
		})
	}
	return rows
}
