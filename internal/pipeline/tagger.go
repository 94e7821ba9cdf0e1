// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/paulasquin/ffshare/internal/gitrepo"
	"github.com/paulasquin/ffshare/internal/version"
)

// Tagger implements the tagging step: deriving the next tag from the current
// state of the store and recording it.
type Tagger struct {
	Tags   *gitrepo.Repository
	Stdout io.Writer
}

// Next derives the tag a bump or RC request would create.
//
// With relType set and rc false, the latest stable version is bumped. With
// both set, the bump starts a fresh candidate at -rc.1. With only rc set,
// the latest existing candidate's ordinal advances by one; a candidate that
// no longer sorts above the latest stable has already been promoted, and
// continuing it is refused.
func (t *Tagger) Next(ctx context.Context, relType version.ReleaseType, rc bool) (string, error) {
	stable := t.Tags.LatestStable(ctx)
	if stable == "" {
		fmt.Fprintln(t.Stdout, "No existing stable tags found, starting from v0.0.0")
	}
	current := version.Parse(stable)

	if rc {
		if relType != "" {
			return version.Tag{Version: current.Bump(relType), RC: 1}.String(), nil
		}
		rcTag := t.Tags.LatestRC(ctx)
		if rcTag == "" {
			return "", fmt.Errorf("no existing RC tag to increment: %w (specify a release type, e.g. 'ffshare tag rc patch')", &gitrepo.TagNotFoundError{})
		}
		next, err := version.NextRC(rcTag)
		if err != nil {
			return "", err
		}
		if version.Compare(next, version.Tag{Version: current}) <= 0 {
			return "", fmt.Errorf("candidate %s is already promoted to %s; start a new series, e.g. 'ffshare tag rc patch'", next, stable)
		}
		return next.String(), nil
	}

	if relType == "" {
		return "", fmt.Errorf("release type required")
	}
	return version.Tag{Version: current.Bump(relType)}.String(), nil
}

// Cut derives the next tag, records it at HEAD, and optionally pushes it.
func (t *Tagger) Cut(ctx context.Context, relType version.ReleaseType, rc, push bool) (string, error) {
	tag, err := t.Next(ctx, relType, rc)
	if err != nil {
		return "", err
	}
	if err := t.Tags.Create(ctx, tag); err != nil {
		return "", err
	}
	if push {
		if err := t.Tags.Push(ctx, tag, false); err != nil {
			return "", err
		}
	}
	return tag, nil
}

// Retag deletes and recreates the latest stable tag at the current HEAD.
// The delete tolerates absence, and the push is forced since the remote tag
// usually still points at the old commit. Whether HEAD actually moved is the
// operator's business.
func (t *Tagger) Retag(ctx context.Context, push bool) (string, error) {
	stable := t.Tags.LatestStable(ctx)
	if stable == "" {
		return "", &gitrepo.TagNotFoundError{}
	}

	t.Tags.Delete(ctx, stable)
	if err := t.Tags.Create(ctx, stable); err != nil {
		return "", err
	}
	if push {
		if err := t.Tags.Push(ctx, stable, true); err != nil {
			return "", err
		}
	}
	return stable, nil
}
