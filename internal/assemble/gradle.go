// SPDX-License-Identifier: MPL-2.0

package assemble

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var (
	versionNameRe = regexp.MustCompile(`versionName "([^"]+)"`)
	versionCodeRe = regexp.MustCompile(`versionCode (\d+)`)
)

type (
	// Declaration is the version identity read from the gradle build file:
	// the human-facing versionName and the monotonically increasing
	// versionCode build identifier.
	Declaration struct {
		Name string
		Code int
	}

	// Checkout holds the original bytes of the version declaration file
	// while a build runs against a rewritten copy. Restore must run on
	// every exit path: the committed file is never left mutated by a
	// release run.
	Checkout struct {
		path     string
		original []byte
		restored bool
	}

	// RestoreError reports a failed restoration of the version declaration
	// file. It is always fatal; an unrestored file means the repository is
	// left dirty.
	RestoreError struct {
		Path string
		Err  error
	}
)

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restoring version declaration %s: %v (file may be left modified)", e.Path, e.Err)
}

func (e *RestoreError) Unwrap() error { return e.Err }

// ReadDeclaration extracts versionName and versionCode from the gradle file.
// Missing fields fall back to "0.0.0" and 1.
func ReadDeclaration(path string) (Declaration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Declaration{}, fmt.Errorf("reading version declaration: %w", err)
	}

	decl := Declaration{Name: "0.0.0", Code: 1}
	if m := versionNameRe.FindSubmatch(content); m != nil {
		decl.Name = string(m[1])
	}
	if m := versionCodeRe.FindSubmatch(content); m != nil {
		decl.Code, _ = strconv.Atoi(string(m[1]))
	}
	return decl, nil
}

// NewCheckout captures the current bytes of the declaration file so they can
// be restored after the build.
func NewCheckout(path string) (*Checkout, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backing up version declaration: %w", err)
	}
	return &Checkout{path: path, original: original}, nil
}

// Rewrite replaces versionName and versionCode in the declaration file.
func (c *Checkout) Rewrite(version string, code int) error {
	content := versionNameRe.ReplaceAll(c.original, fmt.Appendf(nil, "versionName %q", version))
	content = versionCodeRe.ReplaceAll(content, fmt.Appendf(nil, "versionCode %d", code))

	if err := os.WriteFile(c.path, content, 0o644); err != nil {
		return fmt.Errorf("rewriting version declaration: %w", err)
	}
	return nil
}

// Restore writes the captured original bytes back. Calling it more than once
// is a no-op, so it is safe both deferred and on explicit paths.
func (c *Checkout) Restore() error {
	if c.restored {
		return nil
	}
	if err := os.WriteFile(c.path, c.original, 0o644); err != nil {
		return &RestoreError{Path: c.path, Err: err}
	}
	c.restored = true
	return nil
}
