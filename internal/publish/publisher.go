// SPDX-License-Identifier: MPL-2.0

// Package publish creates the hosted release record for a built version:
// it locates the assembled output directory for a tag and drives the gh CLI
// to create the release and attach every artifact. It never builds; missing
// artifacts at this stage are a user error.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulasquin/ffshare/internal/execx"
	"github.com/paulasquin/ffshare/internal/gitrepo"
)

type (
	// Publisher turns an assembled output directory into a hosted release.
	Publisher struct {
		appName     string
		releasesDir string
		runner      execx.Runner
		stdout      io.Writer
	}

	// MissingArtifactsError reports that publish was invoked for a tag whose
	// output directory or artifact files are absent.
	MissingArtifactsError struct {
		Dir string
	}
)

func (e *MissingArtifactsError) Error() string {
	return fmt.Sprintf("no release artifacts in %s", e.Dir)
}

// New returns a Publisher reading artifacts from releasesDir.
func New(appName, releasesDir string, runner execx.Runner, stdout io.Writer) *Publisher {
	return &Publisher{appName: appName, releasesDir: releasesDir, runner: runner, stdout: stdout}
}

// Publish creates the hosted release for tag from its assembled output
// directory, attaches every APK, and returns the public release URL. The
// prerelease flag is derived from the tag itself: any suffix after the
// version triple marks a prerelease.
func (p *Publisher) Publish(ctx context.Context, tag string, draft bool) (string, error) {
	version := strings.TrimPrefix(tag, "v")
	dir := filepath.Join(p.releasesDir, version)

	if _, err := os.Stat(dir); err != nil {
		return "", &MissingArtifactsError{Dir: dir}
	}
	apks, err := filepath.Glob(filepath.Join(dir, "*.apk"))
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(apks) == 0 {
		return "", &MissingArtifactsError{Dir: dir}
	}
	sort.Strings(apks)

	notes := p.readNotes(dir, tag)
	title := strings.SplitN(notes, "\n", 2)[0]
	if title == "" {
		title = fmt.Sprintf("%s %s", p.appName, version)
	}
	prerelease := strings.Contains(tag, "-")

	fmt.Fprintf(p.stdout, "\nCreating GitHub release:\n")
	fmt.Fprintf(p.stdout, "  Tag: %s\n", tag)
	fmt.Fprintf(p.stdout, "  Title: %s\n", title)
	fmt.Fprintf(p.stdout, "  APKs: %d files\n", len(apks))
	fmt.Fprintf(p.stdout, "  Prerelease: %t\n", prerelease)
	fmt.Fprintf(p.stdout, "  Draft: %t\n\n", draft)

	args := []string{"release", "create", tag, "--title", title, "--notes", notes}
	if draft {
		args = append(args, "--draft")
	}
	if prerelease {
		args = append(args, "--prerelease")
	}
	args = append(args, apks...)

	if err := p.runner.Run(ctx, execx.Command{Name: "gh", Args: args}); err != nil {
		return "", fmt.Errorf("creating release %s: %w", tag, err)
	}

	return p.releaseURL(ctx, tag)
}

// readNotes loads the manifest written by the assembler. A missing manifest
// is survivable (the operator may have built elsewhere); missing APKs are not.
func (p *Publisher) readNotes(dir, tag string) string {
	b, err := os.ReadFile(filepath.Join(dir, "release"))
	if err != nil {
		fmt.Fprintf(p.stdout, "Warning: no release notes found in %s\n", dir)
		return "Release " + tag
	}
	return string(b)
}

// releaseURL queries the hosting API for the public page of the new release.
func (p *Publisher) releaseURL(ctx context.Context, tag string) (string, error) {
	res, err := p.runner.Capture(ctx, execx.Command{
		Name: "gh",
		Args: []string{"release", "view", tag, "--json", "url", "-q", ".url"},
	})
	if err != nil {
		return "", fmt.Errorf("querying release %s: %w", tag, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("querying release %s: gh exited with status %d: %s",
			tag, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ResolveTag picks the tag to publish: an explicit tag must exist in the
// store, and an empty one falls back to the newest tag of any kind.
func ResolveTag(ctx context.Context, repo *gitrepo.Repository, tag string, stdout io.Writer) (string, error) {
	if tag == "" {
		tag = repo.Latest(ctx)
		if tag == "" {
			return "", &gitrepo.TagNotFoundError{}
		}
		fmt.Fprintf(stdout, "Using latest tag: %s\n", tag)
		return tag, nil
	}
	if !repo.Exists(ctx, tag) {
		return "", &gitrepo.TagNotFoundError{Tag: tag}
	}
	return tag, nil
}
