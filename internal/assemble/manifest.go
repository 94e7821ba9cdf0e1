// SPDX-License-Identifier: MPL-2.0

package assemble

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ManifestFileName is the name of the release notes file written next to the
// renamed artifacts in the per-version output directory.
const ManifestFileName = "release"

// apkInfo is the fixed informational block describing the build variants,
// reproduced verbatim in every manifest.
const apkInfo = `
=== APK Info ===
arm64 & armeabi - your phones CPU architecture, the only benefit of downloading these over the default one is a download size reduction
full - FFShare will compress videos, images and audio files (mp3/ogg/etc...)
video - FFShare will only compress videos and images
`

type (
	// Manifest records what a build produced: the target version, the build
	// identifier used for the changelog lookup, the renamed artifacts with
	// their digests, and the rendered release notes.
	Manifest struct {
		Version   string
		Code      int
		Dir       string
		Artifacts []Artifact
		Notes     string
	}

	// Artifact describes one renamed file in the output directory. The
	// digest and size are computed from the copied bytes, never from the
	// build tool's original output location.
	Artifact struct {
		Name   string
		SHA256 string
		Size   int64
	}
)

// renderNotes builds the manifest text: a title line, the changelog body,
// the fixed variant description, and the checksum table sorted by filename.
func renderNotes(appName, version, changelog string, artifacts []Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", appName, version)
	b.WriteString("=== Changelog ===\n")
	fmt.Fprintf(&b, "%s\n", changelog)
	b.WriteString(apkInfo)
	b.WriteString("=== SHA256 ===\n")
	for _, a := range artifacts {
		fmt.Fprintf(&b, "%s  %s (%s)\n", a.SHA256, a.Name, humanSize(a.Size))
	}
	return b.String()
}

// humanSize renders a byte count in megabytes with one decimal place.
func humanSize(n int64) string {
	return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
}

// hashFile streams the file through SHA-256 and returns the lowercase hex
// digest.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
