package maven

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Command is an executable plus its arguments.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes commands. A non-zero exit is reported through
// Result, err is reserved for commands that could not run at all.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSRunner executes commands using os/exec.
type OSRunner struct{}

func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	executable := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		executable.Dir = cmd.Dir
	}

	var stdout, stderr bytes.Buffer
	executable.Stdout = &stdout
	executable.Stderr = &stderr

	if err := executable.Run(); err != nil {
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{}, err
	}
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
