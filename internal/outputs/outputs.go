// Package outputs writes the hand-off file consumed by the automation
// pipeline that triggers image builds.
//
// The file uses key=value lines, one value per line, and is opened in
// append mode so several steps of a pipeline can share it.
package outputs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ttfeeac/tiny11-automated/internal/matrix"
	"github.com/ttfeeac/tiny11-automated/internal/release"
)

// Keys emitted on every run.
const (
	keyHasNew         = "has_new"
	keyNewReleases    = "new_releases"
	keyReleasesMatrix = "releases_matrix"
)

// Write appends the run outcome to path. With no releases the JSON values
// are the literal empty collections so downstream steps can parse the
// lines unconditionally.
func Write(path string, releases []release.Release, m matrix.Matrix) error {
	payload, err := render(releases, m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	if _, err := file.Write(payload); err != nil {
		file.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func render(releases []release.Release, m matrix.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if len(releases) == 0 {
		fmt.Fprintf(&buf, "%s=false\n", keyHasNew)
		fmt.Fprintf(&buf, "%s=[]\n", keyNewReleases)
		fmt.Fprintf(&buf, "%s={}\n", keyReleasesMatrix)
		return buf.Bytes(), nil
	}
	encodedReleases, err := json.Marshal(releases)
	if err != nil {
		return nil, fmt.Errorf("encode releases: %w", err)
	}
	encodedMatrix, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode build matrix: %w", err)
	}
	fmt.Fprintf(&buf, "%s=true\n", keyHasNew)
	fmt.Fprintf(&buf, "%s=%s\n", keyNewReleases, encodedReleases)
	fmt.Fprintf(&buf, "%s=%s\n", keyReleasesMatrix, encodedMatrix)
	return buf.Bytes(), nil
}
