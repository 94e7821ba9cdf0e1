// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/paulasquin/ffshare/internal/execx"
	"github.com/paulasquin/ffshare/internal/gitrepo"
	"github.com/paulasquin/ffshare/internal/version"
)

const listStable = "git tag -l v* --sort -version:refname"
const listRC = "git tag -l v*-rc.* --sort -version:refname"

func newTagger(fake *execx.FakeRunner, out *bytes.Buffer) *Tagger {
	return &Tagger{Tags: gitrepo.New(fake, "origin"), Stdout: out}
}

func TestNext_Bumps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  version.ReleaseType
		rc   bool
		want string
	}{
		{"patch", version.Patch, false, "v1.2.1"},
		{"minor", version.Minor, false, "v1.3.0"},
		{"major", version.Major, false, "v2.0.0"},
		{"fresh rc starts at ordinal 1", version.Patch, true, "v1.2.1-rc.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &execx.FakeRunner{Results: map[string]execx.Result{
				listStable: {Stdout: "v1.2.0\nv1.1.0\n"},
			}}
			got, err := newTagger(fake, &bytes.Buffer{}).Next(context.Background(), tt.typ, tt.rc)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNext_ContinuesRC(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.1-rc.2\nv1.2.0\n"},
		listRC:     {Stdout: "v1.2.1-rc.2\nv1.2.1-rc.1\n"},
	}}
	got, err := newTagger(fake, &bytes.Buffer{}).Next(context.Background(), "", true)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "v1.2.1-rc.3" {
		t.Errorf("Next = %q, want v1.2.1-rc.3", got)
	}
}

func TestNext_RefusesPromotedRC(t *testing.T) {
	t.Parallel()

	// v1.3.0 was already cut from the v1.3.0-rc series; advancing the
	// candidate would create a tag that sorts below the stable release.
	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.3.0\nv1.3.0-rc.2\nv1.2.0\n"},
		listRC:     {Stdout: "v1.3.0-rc.2\nv1.3.0-rc.1\n"},
	}}
	_, err := newTagger(fake, &bytes.Buffer{}).Next(context.Background(), "", true)
	if err == nil {
		t.Fatal("expected error for a candidate series already promoted to stable")
	}
	if !strings.Contains(err.Error(), "already promoted") {
		t.Errorf("error = %v, want promotion refusal", err)
	}
}

func TestNext_RCWithoutExistingRC(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.0\n"},
	}}
	_, err := newTagger(fake, &bytes.Buffer{}).Next(context.Background(), "", true)

	var notFound *gitrepo.TagNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want TagNotFoundError", err)
	}
}

func TestNext_MalformedStoredRC(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listRC: {Stdout: "v1.2.1-rc.oops\n"},
	}}
	_, err := newTagger(fake, &bytes.Buffer{}).Next(context.Background(), "", true)

	var malformed *version.MalformedTagError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedTagError", err)
	}
}

func TestNext_NoTagsFallsBackToZero(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	got, err := newTagger(&execx.FakeRunner{}, &out).Next(context.Background(), version.Patch, false)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "v0.0.1" {
		t.Errorf("Next = %q, want v0.0.1", got)
	}
	if !strings.Contains(out.String(), "starting from v0.0.0") {
		t.Errorf("missing fallback notice: %q", out.String())
	}
}

func TestNext_RequiresReleaseType(t *testing.T) {
	t.Parallel()

	if _, err := newTagger(&execx.FakeRunner{}, &bytes.Buffer{}).Next(context.Background(), "", false); err == nil {
		t.Fatal("expected error when neither release type nor rc is given")
	}
}

func TestCut_CreatesAndPushes(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.0\n"},
	}}
	tag, err := newTagger(fake, &bytes.Buffer{}).Cut(context.Background(), version.Patch, false, true)
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if tag != "v1.2.1" {
		t.Errorf("Cut = %q, want v1.2.1", tag)
	}

	want := []string{
		listStable,
		"git tag v1.2.1",
		"git push origin v1.2.1",
	}
	if got := fake.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRetag(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.0\n"},
	}}
	tag, err := newTagger(fake, &bytes.Buffer{}).Retag(context.Background(), true)
	if err != nil {
		t.Fatalf("Retag: %v", err)
	}
	if tag != "v1.2.0" {
		t.Errorf("Retag = %q, want v1.2.0", tag)
	}

	want := []string{
		listStable,
		"git tag -d v1.2.0",
		"git tag v1.2.0",
		"git push origin v1.2.0 --force",
	}
	if got := fake.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRetag_NoTags(t *testing.T) {
	t.Parallel()

	_, err := newTagger(&execx.FakeRunner{}, &bytes.Buffer{}).Retag(context.Background(), false)
	var notFound *gitrepo.TagNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want TagNotFoundError", err)
	}
}
