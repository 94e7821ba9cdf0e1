// SPDX-License-Identifier: MPL-2.0

// Package version implements the semantic version tags the release pipeline
// moves between: stable tags like v1.2.0 and release candidates like
// v1.2.1-rc.3. It is pure state machine code with no I/O; the tag store
// lives in gitrepo.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

// ReleaseType selects which component of a version a bump advances.
type ReleaseType string

const (
	Major ReleaseType = "major"
	Minor ReleaseType = "minor"
	Patch ReleaseType = "patch"
)

// ParseReleaseType validates a user-supplied release type string.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch t := ReleaseType(s); t {
	case Major, Minor, Patch:
		return t, nil
	}
	return "", fmt.Errorf("invalid release type %q (want major, minor or patch)", s)
}

type (
	// Version is an ordered (major, minor, patch) triple.
	Version struct {
		Major, Minor, Patch int
	}

	// Tag is a Version plus an optional release candidate ordinal.
	// An RC of zero means the tag is a stable release.
	Tag struct {
		Version
		RC int
	}

	// MalformedTagError reports a tag string outside the expected grammar.
	MalformedTagError struct {
		Tag string
	}
)

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag %q: want v<major>.<minor>.<patch>[-rc.<n>]", e.Tag)
}

var (
	versionRe = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)
	rcRe      = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)-rc\.(\d+)$`)
)

// Parse extracts the version triple from a tag string. Strings outside the
// grammar yield the zero version rather than an error; callers apply that
// fallback deliberately when no tags exist yet and the base is v0.0.0.
func Parse(tag string) Version {
	m := versionRe.FindStringSubmatch(tag)
	if m == nil {
		return Version{}
	}
	return Version{Major: atoi(m[1]), Minor: atoi(m[2]), Patch: atoi(m[3])}
}

// ParseRC parses a release candidate tag. Inputs without an -rc.<n> suffix
// are rejected with a MalformedTagError.
func ParseRC(tag string) (Tag, error) {
	m := rcRe.FindStringSubmatch(tag)
	if m == nil {
		return Tag{}, &MalformedTagError{Tag: tag}
	}
	return Tag{
		Version: Version{Major: atoi(m[1]), Minor: atoi(m[2]), Patch: atoi(m[3])},
		RC:      atoi(m[4]),
	}, nil
}

// NextRC returns the tag with the RC ordinal advanced by one, version
// unchanged. The input must already be a release candidate tag.
func NextRC(tag string) (Tag, error) {
	t, err := ParseRC(tag)
	if err != nil {
		return Tag{}, err
	}
	t.RC++
	return t, nil
}

// Bump advances exactly one component of the version. Lower components reset
// to zero for major and minor bumps.
func (v Version) Bump(t ReleaseType) Version {
	switch t {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// String renders the canonical form v{major}.{minor}.{patch}.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsPrerelease reports whether the tag carries a release candidate ordinal.
func (t Tag) IsPrerelease() bool { return t.RC > 0 }

// String renders the canonical tag form, appending -rc.{n} for candidates.
func (t Tag) String() string {
	if t.RC > 0 {
		return fmt.Sprintf("%s-rc.%d", t.Version, t.RC)
	}
	return t.Version.String()
}

// Compare orders two tags under semver precedence, where a release candidate
// sorts below the stable release it precedes. It returns -1, 0, or +1.
func Compare(a, b Tag) int {
	return semver.Compare(a.String(), b.String())
}

// atoi converts a digits-only regexp capture; the pattern guarantees it parses.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
