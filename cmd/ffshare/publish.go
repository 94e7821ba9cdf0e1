// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulasquin/ffshare/internal/pipeline"
	"github.com/paulasquin/ffshare/internal/version"
)

// publishCmd groups the end-to-end release workflows.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run the full release workflow: tag, build, publish",
	Long: TitleStyle.Render("Full Release Workflow") + `

Cut and push the next tag, build the APKs for it, and publish them as a
GitHub release in one run. The tag is pushed before building, so a failed
build leaves a pushed tag without a release for the operator to resolve.`,
	Example: `  ffshare publish patch           # v1.2.0 -> v1.2.1, build, release
  ffshare publish rc minor        # v1.2.0 -> v1.3.0-rc.1 as prerelease
  ffshare publish rc              # advance the current release candidate
  ffshare publish major --draft`,
}

func init() {
	for _, t := range []version.ReleaseType{version.Major, version.Minor, version.Patch} {
		publishCmd.AddCommand(newPublishBumpCommand(t))
	}
	publishCmd.AddCommand(newPublishRCCommand())
}

func addPublishFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("draft", "d", false, "create the release as a draft")
	cmd.Flags().Bool("no-build", false, "skip the build step and publish existing artifacts")
}

func newPublishBumpCommand(t version.ReleaseType) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(t),
		Short: fmt.Sprintf("Tag, build, and publish a %s release", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, t, false)
		},
	}
	addPublishFlags(cmd)
	return cmd
}

func newPublishRCCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rc [major|minor|patch]",
		Short: "Tag, build, and publish a release candidate",
		Long: `Tag, build, and publish a release candidate.

With a release type a fresh candidate starts at -rc.1 on the bumped version;
without one the latest candidate's ordinal advances by one. The release is
marked as a prerelease.`,
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
			return runPublish(cmd, relType, true)
		},
	}
	addPublishFlags(cmd)
	return cmd
}

func runPublish(cmd *cobra.Command, relType version.ReleaseType, rc bool) error {
	draft, _ := cmd.Flags().GetBool("draft")
	noBuild, _ := cmd.Flags().GetBool("no-build")

	svc, err := newServices(cmd, false)
	if err != nil {
		return fail(cmd, err)
	}

	req := pipeline.Request{Type: relType, RC: rc, Draft: draft, NoBuild: noBuild}
	if err := svc.orchestrator().Run(cmd.Context(), req); err != nil {
		return fail(cmd, err)
	}
	return nil
}
