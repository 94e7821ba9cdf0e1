// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Tests in this package mutate the package-level override and the process
// environment, so they do not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "FFShare" {
		t.Errorf("AppName = %q, want FFShare", cfg.AppName)
	}
	if cfg.GradleFile != filepath.Join("app", "build.gradle") {
		t.Errorf("GradleFile = %q", cfg.GradleFile)
	}
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want origin", cfg.Remote)
	}
	// Empty by default: the build tool runs in the current directory.
	if cfg.WorkDir != "" {
		t.Errorf("WorkDir = %q, want empty", cfg.WorkDir)
	}
}

func TestLoad_WorkDirFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ffshare.toml"), []byte("work_dir = \"android\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkDir != "android" {
		t.Errorf("WorkDir = %q, want android", cfg.WorkDir)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := "app_name = \"FFShareDev\"\nremote = \"upstream\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "FFShareDev" {
		t.Errorf("AppName = %q, want FFShareDev", cfg.AppName)
	}
	if cfg.Remote != "upstream" {
		t.Errorf("Remote = %q, want upstream", cfg.Remote)
	}
	// Keys absent from the file keep their defaults.
	if cfg.ReleasesDir != "github_releases" {
		t.Errorf("ReleasesDir = %q, want github_releases", cfg.ReleasesDir)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "absent.toml"))
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_CwdConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ffshare.toml"), []byte("releases_dir = \"dist\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReleasesDir != "dist" {
		t.Errorf("ReleasesDir = %q, want dist", cfg.ReleasesDir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FFSHARE_REMOTE", "fork")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote != "fork" {
		t.Errorf("Remote = %q, want fork", cfg.Remote)
	}
}
