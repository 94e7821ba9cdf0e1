// SPDX-License-Identifier: MPL-2.0

package gitrepo

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/paulasquin/ffshare/internal/execx"
)

const listStable = "git tag -l v* --sort -version:refname"
const listRC = "git tag -l v*-rc.* --sort -version:refname"

func TestListTags(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.1-rc.2\nv1.2.0\nv1.1.0\n"},
	}}
	repo := New(fake, "origin")

	got := repo.ListTags(context.Background(), "v*")
	want := []string{"v1.2.1-rc.2", "v1.2.0", "v1.1.0"}
	if !slices.Equal(got, want) {
		t.Errorf("ListTags = %v, want %v", got, want)
	}
}

func TestListTags_NoMatchesIsNotAnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result execx.Result
	}{
		{"empty output", execx.Result{Stdout: ""}},
		{"whitespace only", execx.Result{Stdout: "\n"}},
		{"git failure", execx.Result{ExitCode: 128, Stderr: "fatal: not a git repository"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &execx.FakeRunner{Results: map[string]execx.Result{listStable: tt.result}}
			if got := New(fake, "origin").ListTags(context.Background(), "v*"); got != nil {
				t.Errorf("ListTags = %v, want nil", got)
			}
		})
	}
}

func TestLatestStable_SkipsPrereleases(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listStable: {Stdout: "v1.2.1-rc.3\nv1.2.1-rc.2\nv1.2.0\nv1.1.0\n"},
	}}
	repo := New(fake, "origin")

	if got := repo.LatestStable(context.Background()); got != "v1.2.0" {
		t.Errorf("LatestStable = %q, want v1.2.0", got)
	}
}

func TestLatestRC(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		listRC: {Stdout: "v1.2.1-rc.2\nv1.2.1-rc.1\n"},
	}}
	repo := New(fake, "origin")

	if got := repo.LatestRC(context.Background()); got != "v1.2.1-rc.2" {
		t.Errorf("LatestRC = %q, want v1.2.1-rc.2", got)
	}
	// Latest-RC selection never returns a stable tag.
	if got := New(&execx.FakeRunner{}, "origin").LatestRC(context.Background()); got != "" {
		t.Errorf("LatestRC with no RC tags = %q, want empty", got)
	}
}

func TestCreateAndPush(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{}
	repo := New(fake, "origin")
	ctx := context.Background()

	if err := repo.Create(ctx, "v1.3.0"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Push(ctx, "v1.3.0", false); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := repo.Push(ctx, "v1.3.0", true); err != nil {
		t.Fatalf("Push force: %v", err)
	}

	want := []string{
		"git tag v1.3.0",
		"git push origin v1.3.0",
		"git push origin v1.3.0 --force",
	}
	got := fake.CommandLines()
	if !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestDelete_IgnoresAbsentTag(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{RunErrs: map[string]error{
		"git tag -d v9.9.9": errors.New("error: tag 'v9.9.9' not found"),
	}}
	repo := New(fake, "origin")

	// Delete must not propagate the failure; retag relies on that.
	repo.Delete(context.Background(), "v9.9.9")

	if n := len(fake.Calls()); n != 1 {
		t.Errorf("recorded %d calls, want 1", n)
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	fake := &execx.FakeRunner{Results: map[string]execx.Result{
		"git rev-parse v1.0.0": {ExitCode: 0},
		"git rev-parse v2.0.0": {ExitCode: 128, Stderr: "unknown revision"},
	}}
	repo := New(fake, "origin")
	ctx := context.Background()

	if !repo.Exists(ctx, "v1.0.0") {
		t.Error("Exists(v1.0.0) = false, want true")
	}
	if repo.Exists(ctx, "v2.0.0") {
		t.Error("Exists(v2.0.0) = true, want false")
	}
}
