// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [version]",
	Short: "Build release APKs and collect them with checksums",
	Long: TitleStyle.Render("Build Release APKs") + `

Run the gradle release build and collect the APKs under the releases
directory, renamed to a versioned scheme and accompanied by a release
manifest with changelog and SHA-256 checksums.

With an explicit version the gradle version declaration is rewritten for the
build (the version code advances by one) and restored afterwards, whatever
the build's outcome. Without one the declared version is used as is.`,
	Example: `  ffshare build           # build with the declared gradle version
  ffshare build 1.3.0     # build as 1.3.0, bumping the version code`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}

		svc, err := newServices(cmd, false)
		if err != nil {
			return fail(cmd, err)
		}

		if _, err := svc.assembler.Assemble(cmd.Context(), target); err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}
