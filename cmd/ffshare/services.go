// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/paulasquin/ffshare/internal/assemble"
	"github.com/paulasquin/ffshare/internal/config"
	"github.com/paulasquin/ffshare/internal/execx"
	"github.com/paulasquin/ffshare/internal/gitrepo"
	"github.com/paulasquin/ffshare/internal/issue"
	"github.com/paulasquin/ffshare/internal/pipeline"
	"github.com/paulasquin/ffshare/internal/publish"
)

// services bundles the configured components a command handler needs. It is
// the composition root for the CLI layer; tests build the same components
// directly with a FakeRunner behind the execx.Runner seam.
type services struct {
	cfg       *config.Config
	tags      *gitrepo.Repository
	tagger    *pipeline.Tagger
	assembler *assemble.Assembler
	publisher *publish.Publisher
	logger    *log.Logger
	stdout    io.Writer
}

// newServices builds the production wiring. With simulate set, every
// mutating external command is printed instead of executed while read-only
// queries still run.
func newServices(cmd *cobra.Command, simulate bool) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ffshare"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	stdout := cmd.OutOrStdout()
	var runner execx.Runner = &execx.ExecRunner{Stdout: stdout, Stderr: cmd.ErrOrStderr(), Stdin: os.Stdin}
	if simulate {
		fmt.Fprintln(stdout, "[SIMULATE] No mutating commands will be executed")
		runner = &execx.SimulateRunner{Real: runner, Out: stdout}
	}

	tags := gitrepo.New(runner, cfg.Remote)
	opts := assemble.Options{
		AppName:      cfg.AppName,
		GradleFile:   cfg.GradleFile,
		APKRoot:      cfg.APKRoot,
		ReleasesDir:  cfg.ReleasesDir,
		ChangelogDir: cfg.ChangelogDir,
		WorkDir:      cfg.WorkDir,
	}

	return &services{
		cfg:       cfg,
		tags:      tags,
		tagger:    &pipeline.Tagger{Tags: tags, Stdout: stdout},
		assembler: assemble.New(opts, runner, logger, stdout),
		publisher: publish.New(cfg.AppName, cfg.ReleasesDir, runner, stdout),
		logger:    logger,
		stdout:    stdout,
	}, nil
}

// orchestrator wires the full pipeline from the configured services.
func (s *services) orchestrator() *pipeline.Orchestrator {
	return &pipeline.Orchestrator{
		Tagger:    s.tagger,
		Assembler: s.assembler,
		Publisher: s.publisher,
		Logger:    s.logger,
		Stdout:    s.stdout,
	}
}

// fail prints the formatted error and converts it into a non-zero exit
// without cobra's usage dump.
func fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err = decorate(err)
	fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}

// decorate attaches remediation hints to well-known pipeline errors.
func decorate(err error) error {
	var missing *publish.MissingArtifactsError
	if errors.As(err, &missing) {
		return issue.NewContext().
			WithOperation("publish release").
			WithResource(missing.Dir).
			WithSuggestion("Run 'ffshare build' first to assemble the APKs").
			Wrap(err).
			Build()
	}

	var notFound *gitrepo.TagNotFoundError
	if errors.As(err, &notFound) {
		ctx := issue.NewContext().WithOperation("resolve tag").Wrap(err)
		if notFound.Tag != "" {
			ctx = ctx.WithResource(notFound.Tag).
				WithSuggestion("Check existing tags with 'ffshare tag latest'")
		} else {
			ctx = ctx.WithSuggestion("Create a tag first, e.g. 'ffshare tag patch'")
		}
		return ctx.Build()
	}

	var restore *assemble.RestoreError
	if errors.As(err, &restore) {
		return issue.NewContext().
			WithOperation("restore version declaration").
			WithResource(restore.Path).
			WithSuggestion("Inspect the file and restore it with 'git checkout -- " + restore.Path + "'").
			Wrap(err).
			Build()
	}

	return err
}
