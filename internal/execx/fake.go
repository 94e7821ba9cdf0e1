// SPDX-License-Identifier: MPL-2.0

package execx

import (
	"context"
	"sync"
)

// FakeRunner is a scripted Runner for tests. It records every invocation and
// answers from a result table, so pipeline logic can be tested without a
// real git repository, gradle toolchain, or hosting API.
//
// Results and errors are looked up first by the full command line
// ("git tag -l v* --sort -version:refname"), then by the bare command name
// ("git"). Unmatched commands succeed with an empty Result.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Command

	// Results answers Capture lookups.
	Results map[string]Result
	// RunErrs answers Run lookups.
	RunErrs map[string]error
	// RunHook, when set, is invoked for every Run call before the error
	// lookup. Tests use it to observe filesystem state mid-build.
	RunHook func(cmd Command) error
}

// Run records the call and returns any scripted error.
func (f *FakeRunner) Run(_ context.Context, cmd Command) error {
	f.record(cmd)
	if f.RunHook != nil {
		if err := f.RunHook(cmd); err != nil {
			return err
		}
	}
	if err, ok := f.RunErrs[cmd.String()]; ok {
		return err
	}
	if err, ok := f.RunErrs[cmd.Name]; ok {
		return err
	}
	return nil
}

// Capture records the call and returns the scripted result.
func (f *FakeRunner) Capture(_ context.Context, cmd Command) (Result, error) {
	f.record(cmd)
	if res, ok := f.Results[cmd.String()]; ok {
		return res, nil
	}
	if res, ok := f.Results[cmd.Name]; ok {
		return res, nil
	}
	return Result{}, nil
}

// Calls returns a copy of every command seen so far, in order.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandLines returns the recorded calls rendered as command lines.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

func (f *FakeRunner) record(cmd Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
}
