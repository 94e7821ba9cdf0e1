// SPDX-License-Identifier: MPL-2.0

// Package gitrepo adapts the git tag store for the release pipeline: listing
// version tags in git's native version-aware order and creating, deleting,
// and pushing them. All git invocations go through an execx.Runner.
package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulasquin/ffshare/internal/execx"
)

type (
	// Repository is a thin adapter over the git command line.
	Repository struct {
		runner execx.Runner
		remote string
	}

	// TagNotFoundError reports a required tag that is absent from the store.
	// An empty Tag means no tags exist at all.
	TagNotFoundError struct {
		Tag string
	}
)

func (e *TagNotFoundError) Error() string {
	if e.Tag == "" {
		return "no tags found"
	}
	return fmt.Sprintf("tag %q does not exist", e.Tag)
}

// New returns a Repository pushing to the given remote.
func New(runner execx.Runner, remote string) *Repository {
	return &Repository{runner: runner, remote: remote}
}

// ListTags returns tag names matching pattern, newest version first using
// git's version-aware sort. A failing or empty query yields no tags, never
// an error: "no tags yet" is a normal state for this tool.
func (r *Repository) ListTags(ctx context.Context, pattern string) []string {
	res, err := r.runner.Capture(ctx, execx.Command{
		Name: "git",
		Args: []string{"tag", "-l", pattern, "--sort", "-version:refname"},
	})
	if err != nil || res.ExitCode != 0 {
		return nil
	}

	var tags []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags
}

// LatestStable returns the newest tag without a prerelease suffix, or ""
// when none exists.
func (r *Repository) LatestStable(ctx context.Context) string {
	for _, tag := range r.ListTags(ctx, "v*") {
		if !strings.Contains(tag, "-") {
			return tag
		}
	}
	return ""
}

// LatestRC returns the newest release candidate tag, or "" when none exists.
func (r *Repository) LatestRC(ctx context.Context) string {
	tags := r.ListTags(ctx, "v*-rc.*")
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// Latest returns the newest tag of any kind, or "" when none exists.
func (r *Repository) Latest(ctx context.Context) string {
	tags := r.ListTags(ctx, "v*")
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// Create records a new tag at HEAD.
func (r *Repository) Create(ctx context.Context, tag string) error {
	if err := r.runner.Run(ctx, execx.Command{Name: "git", Args: []string{"tag", tag}}); err != nil {
		return fmt.Errorf("creating tag %s: %w", tag, err)
	}
	return nil
}

// Delete removes a local tag. Absence is tolerated so the retag flow stays
// idempotent.
func (r *Repository) Delete(ctx context.Context, tag string) {
	_ = r.runner.Run(ctx, execx.Command{Name: "git", Args: []string{"tag", "-d", tag}})
}

// Push publishes a tag to the configured remote.
func (r *Repository) Push(ctx context.Context, tag string, force bool) error {
	args := []string{"push", r.remote, tag}
	if force {
		args = append(args, "--force")
	}
	if err := r.runner.Run(ctx, execx.Command{Name: "git", Args: args}); err != nil {
		return fmt.Errorf("pushing tag %s to %s: %w", tag, r.remote, err)
	}
	return nil
}

// Exists reports whether the tag resolves in the store.
func (r *Repository) Exists(ctx context.Context, tag string) bool {
	res, err := r.runner.Capture(ctx, execx.Command{Name: "git", Args: []string{"rev-parse", tag}})
	return err == nil && res.ExitCode == 0
}
