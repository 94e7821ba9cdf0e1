// SPDX-License-Identifier: MPL-2.0

package execx

import (
	"context"
	"fmt"
	"io"
)

// SimulateRunner previews mutating commands instead of executing them, while
// still delegating read-only queries to the real runner. Dry runs therefore
// walk the exact same validation and error paths as real runs; only the
// store mutations are suppressed.
type SimulateRunner struct {
	Real Runner
	Out  io.Writer
}

// Run prints the command that would have executed and reports success.
func (r *SimulateRunner) Run(_ context.Context, cmd Command) error {
	fmt.Fprintf(r.Out, "> %s\n", cmd)
	return nil
}

// Capture delegates to the real runner; queries are safe to perform.
func (r *SimulateRunner) Capture(ctx context.Context, cmd Command) (Result, error) {
	return r.Real.Capture(ctx, cmd)
}
