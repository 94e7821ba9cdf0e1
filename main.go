// SPDX-License-Identifier: MPL-2.0

// ffshare is the release management CLI for the FFShare Android app.
package main

import (
	cmd "github.com/paulasquin/ffshare/cmd/ffshare"
)

func main() {
	cmd.Execute()
}
