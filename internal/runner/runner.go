package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNotFound is returned when the tool is not on the executable search path.
var ErrNotFound = errors.New("tool not found")

// SpawnError reports a child that could not be started. No output was captured.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ProcessError reports a child that exited non-zero.
type ProcessError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, msg)
}

// Result holds the captured streams of a successful run. Stderr may be
// non-empty on success.
type Result struct {
	Stdout string
	Stderr string
}

// Indicator is a cosmetic progress display shown while a child runs.
type Indicator interface {
	Start()
	Stop()
}

// Runner locates the external tool and runs it to completion.
type Runner struct {
	Tool    string
	Spawner Spawner

	// LookPath resolves Tool on the search path; exec.LookPath when nil.
	LookPath func(string) (string, error)

	// Stdout and Stderr, when set, receive output live in addition to the
	// captured buffers.
	Stdout io.Writer
	Stderr io.Writer

	// Progress, when set, is started before the child and stopped after it.
	Progress Indicator
}

// New returns a Runner for tool using the host platform's spawner.
func New(tool string) *Runner {
	return &Runner{Tool: tool, Spawner: DefaultSpawner()}
}

// Locate returns the first match for the tool on the search path.
func (r *Runner) Locate() (string, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(r.Tool)
	if err != nil || path == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, r.Tool)
	}
	return path, nil
}

// Run spawns the tool with [command, args...] and waits for it to exit.
// There is no timeout beyond ctx; a hung child blocks the caller.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (Result, error) {
	path, err := r.Locate()
	if err != nil {
		return Result{}, err
	}

	spawner := r.Spawner
	if spawner == nil {
		spawner = DefaultSpawner()
	}

	argv := append([]string{command}, args...)
	cmd := spawner.Command(ctx, path, argv)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = teeWriter(&stdoutBuf, r.Stdout)
	cmd.Stderr = teeWriter(&stderrBuf, r.Stderr)

	if err := cmd.Start(); err != nil {
		return Result{}, &SpawnError{Path: path, Err: err}
	}

	if r.Progress != nil {
		r.Progress.Start()
	}
	err = cmd.Wait()
	if r.Progress != nil {
		r.Progress.Stop()
	}

	res := Result{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ProcessError{
			Command:  command,
			ExitCode: exitErr.ExitCode(),
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}
	return res, fmt.Errorf("wait for %s: %w", path, err)
}

func teeWriter(buf *bytes.Buffer, live io.Writer) io.Writer {
	if live == nil {
		return buf
	}
	return io.MultiWriter(buf, live)
}
