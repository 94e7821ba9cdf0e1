// SPDX-License-Identifier: MPL-2.0

// Package assemble turns a gradle build into a versioned, checksummed set of
// release artifacts. When an explicit target version is requested it
// rewrites the gradle version declaration for the duration of the build and
// restores the original bytes on every exit path.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/paulasquin/ffshare/internal/execx"
)

type (
	// Options locate the build inputs and outputs.
	Options struct {
		// AppName prefixes every renamed artifact and the manifest title.
		AppName string
		// GradleFile is the version declaration file.
		GradleFile string
		// APKRoot is the build output root, holding per-variant subtrees.
		APKRoot string
		// ReleasesDir is the root under which per-version output
		// directories are created.
		ReleasesDir string
		// ChangelogDir holds {versionCode}.txt changelog files.
		ChangelogDir string
		// WorkDir is the directory the build tool runs in.
		WorkDir string
	}

	// Assembler drives the build step and collects its artifacts.
	Assembler struct {
		opts   Options
		runner execx.Runner
		logger *log.Logger
		stdout io.Writer
	}

	// BuildError reports a failed external build invocation.
	BuildError struct {
		ExitCode int
		Err      error
	}
)

func (e *BuildError) Error() string {
	return fmt.Sprintf("build step failed (exit status %d)", e.ExitCode)
}

func (e *BuildError) Unwrap() error { return e.Err }

// New returns an Assembler. The logger receives per-artifact progress at
// debug level; user-facing lines go to stdout.
func New(opts Options, runner execx.Runner, logger *log.Logger, stdout io.Writer) *Assembler {
	return &Assembler{opts: opts, runner: runner, logger: logger, stdout: stdout}
}

// ReleasesDir returns the root under which per-version output directories
// are created.
func (a *Assembler) ReleasesDir() string { return a.opts.ReleasesDir }

// Assemble builds the app and populates releases_dir/<version>/ with renamed
// artifacts and a manifest. With an empty targetVersion the build uses the
// version currently declared in the gradle file; otherwise the declaration
// is rewritten for the build (versionCode advanced by one) and restored
// afterwards regardless of outcome.
func (a *Assembler) Assemble(ctx context.Context, targetVersion string) (*Manifest, error) {
	decl, err := ReadDeclaration(a.opts.GradleFile)
	if err != nil {
		return nil, err
	}

	version, code := decl.Name, decl.Code
	if targetVersion != "" {
		version, code = targetVersion, decl.Code+1
		if err := a.buildWithVersion(ctx, version, code); err != nil {
			return nil, err
		}
	} else {
		if err := a.runBuild(ctx, version); err != nil {
			return nil, err
		}
	}

	return a.collect(version, code)
}

// buildWithVersion runs the build against a temporarily rewritten version
// declaration. The original bytes are restored unconditionally; a failed
// restoration outranks any build error since it leaves the repository dirty.
func (a *Assembler) buildWithVersion(ctx context.Context, version string, code int) (err error) {
	co, err := NewCheckout(a.opts.GradleFile)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := co.Restore(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	if err := co.Rewrite(version, code); err != nil {
		return err
	}
	return a.runBuild(ctx, version)
}

func (a *Assembler) runBuild(ctx context.Context, version string) error {
	fmt.Fprintf(a.stdout, "Building APKs for version %s...\n", version)

	err := a.runner.Run(ctx, execx.Command{Name: "./gradlew", Args: []string{"assembleRelease"}, Dir: a.opts.WorkDir})
	if err != nil {
		var exitErr *execx.ExitStatusError
		if errors.As(err, &exitErr) {
			return &BuildError{ExitCode: exitErr.Code, Err: err}
		}
		return &BuildError{ExitCode: 1, Err: err}
	}
	return nil
}

// collect purges the per-version output directory, copies in the renamed
// artifacts, and writes the manifest. Checksums are computed from the copied
// bytes so the manifest describes exactly what sits next to it.
func (a *Assembler) collect(version string, code int) (*Manifest, error) {
	outDir := filepath.Join(a.opts.ReleasesDir, version)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := purgeDir(outDir); err != nil {
		return nil, err
	}

	if err := a.copyArtifacts(version, outDir); err != nil {
		return nil, err
	}

	artifacts, err := a.digestArtifacts(outDir)
	if err != nil {
		return nil, err
	}

	notes := renderNotes(a.opts.AppName, version, a.changelog(code), artifacts)
	if err := os.WriteFile(filepath.Join(outDir, ManifestFileName), []byte(notes), 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	fmt.Fprintf(a.stdout, "Build complete! Output: %s\n", outDir)
	return &Manifest{Version: version, Code: code, Dir: outDir, Artifacts: artifacts, Notes: notes}, nil
}

// copyArtifacts walks the per-variant build output and copies each APK into
// outDir under its canonical release name.
func (a *Assembler) copyArtifacts(version, outDir string) error {
	variants, err := os.ReadDir(a.opts.APKRoot)
	if err != nil {
		return fmt.Errorf("reading build output root: %w", err)
	}

	for _, variant := range variants {
		if !variant.IsDir() {
			continue
		}
		releaseDir := filepath.Join(a.opts.APKRoot, variant.Name(), "release")
		apks, err := filepath.Glob(filepath.Join(releaseDir, "*.apk"))
		if err != nil {
			return fmt.Errorf("scanning %s: %w", releaseDir, err)
		}

		for _, apk := range apks {
			name := releaseName(a.opts.AppName, version, variant.Name(), filepath.Base(apk))
			a.logger.Debug("copying artifact", "src", apk, "dst", name)
			if err := copyFile(apk, filepath.Join(outDir, name)); err != nil {
				return fmt.Errorf("copying %s: %w", apk, err)
			}
		}
	}
	return nil
}

// releaseName derives the canonical artifact name
// {AppName}_{version}_{variant}[_{abi}].apk. The ABI sits at the third
// dash-separated field of the original filename and is omitted when it is
// the universal build.
func releaseName(appName, version, variant, original string) string {
	stem := strings.TrimSuffix(original, ".apk")
	abi := "universal"
	if parts := strings.Split(stem, "-"); len(parts) > 2 {
		abi = parts[2]
	}

	suffix := ""
	if abi != "universal" {
		suffix = "_" + abi
	}
	return fmt.Sprintf("%s_%s_%s%s.apk", appName, version, variant, suffix)
}

// digestArtifacts hashes and sizes every APK in outDir, sorted by filename.
func (a *Assembler) digestArtifacts(outDir string) ([]Artifact, error) {
	apks, err := filepath.Glob(filepath.Join(outDir, "*.apk"))
	if err != nil {
		return nil, fmt.Errorf("scanning output directory: %w", err)
	}
	sort.Strings(apks)

	artifacts := make([]Artifact, 0, len(apks))
	for _, apk := range apks {
		digest, err := hashFile(apk)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(apk)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("hashed artifact", "file", filepath.Base(apk), "sha256", digest)
		artifacts = append(artifacts, Artifact{Name: filepath.Base(apk), SHA256: digest, Size: info.Size()})
	}
	return artifacts, nil
}

// changelog returns the release notes body for a build identifier. A missing
// changelog file is not an error; the metadata directory simply has no entry
// for that build yet.
func (a *Assembler) changelog(code int) string {
	b, err := os.ReadFile(filepath.Join(a.opts.ChangelogDir, strconv.Itoa(code)+".txt"))
	if err != nil {
		return "No changelog available"
	}
	return string(b)
}

// purgeDir removes every entry in dir so a rebuild never inherits stale
// artifacts from a previous assemble.
func purgeDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("purging output directory: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("purging output directory: %w", err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
