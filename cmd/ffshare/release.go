// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulasquin/ffshare/internal/publish"
)

var releaseCmd = &cobra.Command{
	Use:   "release [tag]",
	Short: "Publish built APKs as a GitHub release",
	Long: TitleStyle.Render("Publish a GitHub Release") + `

Create a GitHub release for a tag, uploading the APKs assembled by
'ffshare build'. Without a tag the latest tag in the repository is used.
Release candidate tags are marked as prereleases automatically.

This command never builds; run 'ffshare build' first, or use 'ffshare
publish' for the full workflow.`,
	Example: `  ffshare release              # release the latest tag
  ffshare release v1.3.0
  ffshare release v1.3.0-rc.1 --draft`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, _ := cmd.Flags().GetBool("draft")

		svc, err := newServices(cmd, false)
		if err != nil {
			return fail(cmd, err)
		}

		requested := ""
		if len(args) > 0 {
			requested = args[0]
		}
		ctx := cmd.Context()

		tag, err := publish.ResolveTag(ctx, svc.tags, requested, svc.stdout)
		if err != nil {
			return fail(cmd, err)
		}

		url, err := svc.publisher.Publish(ctx, tag, draft)
		if err != nil {
			return fail(cmd, err)
		}

		fmt.Fprintln(svc.stdout, SuccessStyle.Render("Release created successfully!"))
		fmt.Fprintf(svc.stdout, "View at: %s\n", url)
		return nil
	},
}

func init() {
	releaseCmd.Flags().BoolP("draft", "d", false, "create the release as a draft")
}
