package service

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command and captures its output. The returned
// error is non-nil only when the command could not be run at all (binary
// missing, permission denied before exec); a non-zero exit is reported via
// Result.ExitCode so callers can decide what it means.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// DefaultCommandTimeout bounds every external invocation. Privileged
// commands can sit on an interactive polkit prompt, so this is generous.
const DefaultCommandTimeout = 2 * time.Minute

// ExecRunner runs commands via os/exec with a per-invocation timeout.
type ExecRunner struct {
	Timeout time.Duration // 0 means DefaultCommandTimeout
}

// Run executes the command, capturing stdout and stderr separately.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The command ran and exited non-zero. systemctl is-active
			// exits 3 for inactive units while still printing the state
			// token, so this must not look like an invocation failure.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
