package driver

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// stderrTail bounds how much ffmpeg stderr is kept per invocation.
const stderrTail = 4 * 1024

// Result holds the outcome of a single transcoder invocation. The exit code is
// informational; outputs are verified on disk.
type Result struct {
	ExitCode int
	Stderr   string
	Err      error
}

// Invoker runs one external command to completion.
type Invoker interface {
	Invoke(ctx context.Context, binary string, args []string) Result
}

// ExecInvoker runs commands with os/exec and no shell.
type ExecInvoker struct{}

func (ExecInvoker) Invoke(ctx context.Context, binary string, args []string) Result {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr tailBuffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stderr: stderr.String(), Err: err, ExitCode: 0}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	return result
}

// tailBuffer keeps the last stderrTail bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if extra := t.buf.Len() - stderrTail; extra > 0 {
		t.buf.Next(extra)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
