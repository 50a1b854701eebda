package sarif

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"oscalctl/internal/runner"
)

// Flags appended to every validate invocation so the tool writes a full log.
const (
	flagOutput      = "-o"
	flagIncludePass = "--sarif-include-pass"
	flagStackTrace  = "--show-stack-trace"
)

// Command runs one tool sub-command to completion.
type Command interface {
	Run(ctx context.Context, command string, args ...string) (runner.Result, error)
}

// NoLogError reports a failed run that left no result log behind. Its message
// is the tool's stderr verbatim.
type NoLogError struct {
	Stderr string
	Err    error
}

func (e *NoLogError) Error() string { return e.Stderr }

func (e *NoLogError) Unwrap() error { return e.Err }

// Reader runs validate with a temporary result log and reads it back.
type Reader struct {
	Runner Command
	// Dir holds the temporary log; the working directory when empty.
	Dir    string
	Logger zerolog.Logger
}

// NewReader returns a Reader writing temporary logs to the working directory.
func NewReader(cmd Command, logger zerolog.Logger) *Reader {
	return &Reader{Runner: cmd, Logger: logger}
}

// ValidateWithLog runs validate with args plus the log flags and returns the
// parsed log. A log written by a failing run is still returned. The temporary
// file is removed before ValidateWithLog returns.
func (r *Reader) ValidateWithLog(ctx context.Context, args ...string) (*Log, error) {
	path := r.tempPath()
	defer r.remove(path)

	argv := make([]string, 0, len(args)+4)
	argv = append(argv, args...)
	argv = append(argv, flagOutput, path, flagIncludePass, flagStackTrace)

	r.Logger.Debug().Str("log", path).Strs("args", argv).Msg("running validate")
	_, runErr := r.Runner.Run(ctx, "validate", argv...)

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if runErr != nil {
			var procErr *runner.ProcessError
			if errors.As(runErr, &procErr) {
				return nil, &NoLogError{Stderr: procErr.Stderr, Err: runErr}
			}
			return nil, runErr
		}
		return nil, fmt.Errorf("read result log %s: %w", path, readErr)
	}
	if runErr != nil {
		r.Logger.Debug().Err(runErr).Msg("validate failed; using the log it wrote")
	}

	log, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *Reader) tempPath() string {
	return filepath.Join(r.Dir, "oscalctl-"+uuid.NewString()+".sarif.json")
}

func (r *Reader) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.Logger.Warn().Err(err).Str("log", path).Msg("could not remove temporary result log")
	}
}
