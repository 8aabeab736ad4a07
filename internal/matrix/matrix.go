// Package matrix projects detected releases into the build matrix consumed
// by the downstream automation pipeline.
//
// Every release expands into the cross product of build variants and product
// editions, so N releases always produce N x len(Variants) x
// len(EditionCodes) entries.
package matrix

import (
	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// Edition codes as they appear in the source image metadata.
const (
	EditionHome = 1
	EditionPro  = 6
)

// Variants enumerates the image flavors built for every release.
var Variants = []string{"standard", "core", "nano"}

// EditionCodes lists the product editions built for every variant.
var EditionCodes = []int{EditionHome, EditionPro}

// Entry is one matrix cell: a (release, variant, edition) combination.
type Entry struct {
	Version     string `json:"version"`
	Build       string `json:"build"`
	ISOURL      string `json:"iso_url"`
	BuildType   string `json:"build_type"`
	Edition     int    `json:"edition"`
	EditionName string `json:"edition_name"`
	Title       string `json:"title"`
}

// Matrix is the wire shape handed to the automation runner.
type Matrix struct {
	Include []Entry `json:"include"`
}

// EditionName maps an edition code to its display name.
func EditionName(code int) string {
	if code == EditionHome {
		return "Home"
	}
	return "Pro"
}

// Build expands releases into the full variant and edition cross product.
func Build(releases []release.Release) Matrix {
	m := Matrix{Include: make([]Entry, 0, len(releases)*len(Variants)*len(EditionCodes))}
	for _, rel := range releases {
		for _, variant := range Variants {
			for _, edition := range EditionCodes {
				m.Include = append(m.Include, Entry{
					Version:     rel.Version,
					Build:       rel.BuildNumber,
					ISOURL:      rel.ISOURL,
					BuildType:   variant,
					Edition:     edition,
					EditionName: EditionName(edition),
					Title:       rel.TitleSlug(),
				})
			}
		}
	}
	return m
}
