// SPDX-License-Identifier: MPL-2.0

// Package execx runs the external tools the release pipeline drives (git,
// gradle, gh) behind a narrow interface, so orchestration logic can be
// exercised against scripted fakes instead of a real repository or network.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type (
	// Command is a single external invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
	}

	// Result carries the captured outcome of an external invocation.
	Result struct {
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// ExitStatusError reports a mutating command that finished with a
	// non-zero exit status.
	ExitStatusError struct {
		Cmd  Command
		Code int
	}

	// Runner executes external commands. Mutating invocations (tag creation,
	// pushes, builds, release creation) go through Run; read-only queries go
	// through Capture. Simulate mode relies on that split to decide which
	// calls to suppress.
	Runner interface {
		// Run executes cmd, streaming output to the process stdout/stderr.
		// A non-zero exit status is returned as an ExitStatusError.
		Run(ctx context.Context, cmd Command) error

		// Capture executes cmd and captures its output. A non-zero exit is
		// not an error; callers inspect Result.ExitCode.
		Capture(ctx context.Context, cmd Command) (Result, error)
	}
)

// String renders the command as it would appear on a shell prompt.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Cmd.Name, e.Code)
}

// ExecRunner executes commands with os/exec. Mutating commands are echoed
// to Stdout before running so the operator sees every store mutation.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// NewRunner returns an ExecRunner wired to the process streams.
func NewRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

// Run executes a mutating command, streaming its output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	fmt.Fprintf(r.Stdout, "> %s\n", cmd)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	c.Stdin = r.Stdin

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitStatusError{Cmd: cmd, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", cmd.Name, err)
	}
	return nil
}

// Capture executes a read-only command and collects its output.
func (r *ExecRunner) Capture(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", cmd.Name, err)
	}
	return res, nil
}
