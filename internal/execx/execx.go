// Package execx runs external programs on behalf of the probes and the
// partition selector.
//
// Everything that spawns a process goes through Executor so the verification
// and selection logic can be driven by a scripted Fake in tests.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotFound is returned (wrapped) when a program cannot be launched at
// all, typically because it is missing from PATH.
var ErrNotFound = errors.New("program could not be launched")

// Command describes one program invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin string
}

// String renders the command the way a shell user would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is what a completed invocation produced.
// A non-zero ExitCode is not an error.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the program exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs a command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OS runs commands on the host with os/exec.
type OS struct{}

// NewOS returns the host executor.
func NewOS() *OS {
	return &OS{}
}

// Run implements Executor. It blocks until the program exits.
func (OS) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		// Killed by the context; the exit status says nothing about the program.
		return res, ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("%w: %s: %v", ErrNotFound, c.Name, err)
	}
}
