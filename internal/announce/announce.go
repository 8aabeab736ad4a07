// Package announce renders tracker issue payloads for newly detected
// builds.
//
// Issues are generated as data only; nothing here talks to a tracker. The
// downstream pipeline decides whether and where to file them.
package announce

import (
	"fmt"
	"time"

	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// Issue is a ready-to-file tracker issue.
type Issue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

const bodyTemplate = `## 🎉 New Windows Release Detected

**Build Information:**
- **Title:** %s
- **Build Number:** %s
- **Version:** %s
- **Architecture:** %s
- **Channel:** %s
- **Detection Date:** %s

**ISO Source:**
- %s

**Automated Actions:**
- [ ] Trigger Tiny11 Standard build
- [ ] Trigger Tiny11 Core build
- [ ] Trigger Nano11 build
- [ ] Test builds in VM
- [ ] Upload to SourceForge
- [ ] Update documentation

**Build Matrix:**
- Home Edition (Standard, Core, Nano)
- Pro Edition (Standard, Core, Nano)

---
` + footerText

// footerText keeps the two trailing spaces on the first line; markdown needs
// them for a hard line break.
const footerText = "*This issue was automatically created by the Version Matrix Builder*  \n" +
	"*Author: [kelexine](https://github.com/kelexine)*\n"

// NewIssue builds the issue payload for one release.
func NewIssue(rel release.Release) Issue {
	body := fmt.Sprintf(bodyTemplate,
		rel.Title,
		rel.BuildNumber,
		rel.Version,
		rel.Architecture,
		rel.Channel,
		rel.DetectedDate.Format(time.RFC3339),
		rel.ISOURL,
	)
	return Issue{
		Title:  fmt.Sprintf("🆕 New Windows %s Release - Build %s", rel.Version, rel.BuildNumber),
		Body:   body,
		Labels: []string{"automated", "new-release", "build-pending"},
	}
}
