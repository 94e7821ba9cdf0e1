// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulasquin/ffshare/internal/version"
)

// tagCmd groups the semver tag operations.
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Create and manage semantic version tags",
	Long: TitleStyle.Render("Tag Management") + `

Create semantic version tags (` + SubtitleStyle.Render("vMAJOR.MINOR.PATCH") + `) and release candidates
(` + SubtitleStyle.Render("vMAJOR.MINOR.PATCH-rc.N") + `) from the latest tags already in the repository.`,
}

func init() {
	for _, t := range []version.ReleaseType{version.Major, version.Minor, version.Patch} {
		tagCmd.AddCommand(newTagBumpCommand(t))
	}
	tagCmd.AddCommand(newTagRCCommand())
	tagCmd.AddCommand(newTagLatestCommand())
	tagCmd.AddCommand(newTagRetagCommand())
}

func addTagFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("push", "p", false, "push the tag to the remote")
	cmd.Flags().BoolP("simulate", "s", false, "print mutating git commands instead of running them")
}

func newTagBumpCommand(t version.ReleaseType) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(t),
		Short: fmt.Sprintf("Tag a new %s release", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTagCreate(cmd, t, false)
		},
	}
	addTagFlags(cmd)
	return cmd
}

func newTagRCCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rc [major|minor|patch]",
		Short: "Create or advance a release candidate tag",
		Long: `Create or advance a release candidate tag.

With a release type the stable version is bumped and a fresh candidate starts
at -rc.1. Without one the latest candidate's ordinal advances by one.`,
		Example: `  ffshare tag rc patch --push    # v1.2.0 -> v1.2.1-rc.1
  ffshare tag rc --push          # v1.2.1-rc.1 -> v1.2.1-rc.2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var relType version.ReleaseType
			if len(args) > 0 {
				t, err := version.ParseReleaseType(args[0])
				if err != nil {
					return fail(cmd, err)
				}
				relType = t
			}
			return runTagCreate(cmd, relType, true)
		},
	}
	addTagFlags(cmd)
	return cmd
}

func runTagCreate(cmd *cobra.Command, relType version.ReleaseType, rc bool) error {
	push, _ := cmd.Flags().GetBool("push")
	simulate, _ := cmd.Flags().GetBool("simulate")

	svc, err := newServices(cmd, simulate)
	if err != nil {
		return fail(cmd, err)
	}

	tag, err := svc.tagger.Cut(cmd.Context(), relType, rc, push)
	if err != nil {
		return fail(cmd, err)
	}
	svc.logger.Info("tag created", "tag", tag, "pushed", push)
	return nil
}

func newTagLatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest stable and release candidate tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(cmd, false)
			if err != nil {
				return fail(cmd, err)
			}
			ctx := cmd.Context()
			fmt.Fprintf(svc.stdout, "Latest stable tag: %s\n", orNone(svc.tags.LatestStable(ctx)))
			fmt.Fprintf(svc.stdout, "Latest RC tag: %s\n", orNone(svc.tags.LatestRC(ctx)))
			return nil
		},
	}
}

func orNone(tag string) string {
	if tag == "" {
		return "none"
	}
	return tag
}

func newTagRetagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retag",
		Short: "Move the latest stable tag to the current commit",
		Long: `Move the latest stable tag to the current commit.

The tag is deleted locally, recreated on HEAD, and force-pushed when --push
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			push, _ := cmd.Flags().GetBool("push")
			simulate, _ := cmd.Flags().GetBool("simulate")

			svc, err := newServices(cmd, simulate)
			if err != nil {
				return fail(cmd, err)
			}

			tag, err := svc.tagger.Retag(cmd.Context(), push)
			if err != nil {
				return fail(cmd, err)
			}
			svc.logger.Info("tag moved to HEAD", "tag", tag, "pushed", push)
			return nil
		},
	}
	addTagFlags(cmd)
	return cmd
}
