package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs external programs (cargo, apt-get, pacman, dpkg).
type Runner interface {
	// Run executes name with args in dir, streaming the child's stdout and
	// stderr to the runner's diagnostics writer. A non-zero exit is an error.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output executes name with args in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	Stderr io.Writer // Defaults to os.Stderr
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stderr: os.Stderr}
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	// Child stdout goes to our stderr: stdout is reserved for command results.
	cmd.Stdout = r.stderr()
	cmd.Stderr = r.stderr()

	if err := cmd.Run(); err != nil {
		return &Error{Op: "running", Target: commandLine(name, args), Err: err}
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr()

	if err := cmd.Run(); err != nil {
		return nil, &Error{Op: "running", Target: commandLine(name, args), Err: err}
	}
	return stdout.Bytes(), nil
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
