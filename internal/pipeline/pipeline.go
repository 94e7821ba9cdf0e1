// SPDX-License-Identifier: MPL-2.0

// Package pipeline sequences the end-to-end release workflow: cut a pushed
// tag, assemble artifacts for it, publish them. Steps run strictly in order;
// the first failure aborts the run and later steps are never attempted.
// Nothing is retried and nothing already pushed is rolled back — partial
// completion is surfaced for the operator to resolve.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/paulasquin/ffshare/internal/assemble"
	"github.com/paulasquin/ffshare/internal/publish"
	"github.com/paulasquin/ffshare/internal/version"
)

type (
	// Orchestrator composes the tagging, build, and publish components.
	Orchestrator struct {
		Tagger    *Tagger
		Assembler *assemble.Assembler
		Publisher *publish.Publisher
		Logger    *log.Logger
		Stdout    io.Writer
	}

	// Request describes one publish run.
	Request struct {
		// Type is the version component to bump; empty together with RC
		// continues the latest release candidate.
		Type version.ReleaseType
		// RC requests a release candidate tag.
		RC bool
		// Draft creates the hosted release unpublished.
		Draft bool
		// NoBuild skips the build step and publishes existing artifacts.
		NoBuild bool
	}
)

// Run executes the full workflow for req. The tag is pushed as soon as it is
// created; a later failure therefore leaves a pushed tag without a matching
// release, which Run reports but does not undo.
func (o *Orchestrator) Run(ctx context.Context, req Request) error {
	fmt.Fprintln(o.Stdout, "=== Step 1: Creating tag ===")
	tag, err := o.Tagger.Cut(ctx, req.Type, req.RC, true)
	if err != nil {
		return fmt.Errorf("tagging step: %w", err)
	}
	o.Logger.Info("tag created and pushed", "tag", tag)

	if req.NoBuild {
		fmt.Fprintln(o.Stdout, "\n=== Step 2: Skipping build (--no-build) ===")
	} else {
		fmt.Fprintln(o.Stdout, "\n=== Step 2: Building APKs ===")
		if _, err := o.Assembler.Assemble(ctx, strings.TrimPrefix(tag, "v")); err != nil {
			return fmt.Errorf("build step for %s: %w", tag, err)
		}
	}

	fmt.Fprintln(o.Stdout, "\n=== Step 3: Creating GitHub release ===")
	url, err := o.Publisher.Publish(ctx, tag, req.Draft)
	if err != nil {
		return fmt.Errorf("publish step for %s: %w", tag, err)
	}

	fmt.Fprintln(o.Stdout, "\n=== Release complete! ===")
	fmt.Fprintf(o.Stdout, "View at: %s\n", url)
	return nil
}
