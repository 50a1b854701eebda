package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oscalctl/internal/runner"
)

// ExitError carries a forwarded child's exit code. The child has already
// written its own diagnostics, so nothing more is printed unless the child
// ended without a code (killed by a signal).
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return "oscal-cli was terminated by a signal"
	}
	return fmt.Sprintf("oscal-cli exited with code %d", e.Code)
}

// Registry holds the command tree built for one App and decides whether an
// invocation is ours or belongs to oscal-cli.
type Registry struct {
	app  *App
	root *cobra.Command
}

// NewRegistry builds the command tree for app.
func NewRegistry(app *App) *Registry {
	r := &Registry{app: app}
	r.root = r.newRootCmd()
	return r
}

// Root returns the cobra command tree.
func (r *Registry) Root() *cobra.Command {
	return r.root
}

// Dispatch runs args. When the first non-flag argument names none of our
// commands, args are forwarded verbatim to oscal-cli.
func (r *Registry) Dispatch(ctx context.Context, args []string) error {
	forward, rest := r.split(args)
	if !forward {
		r.root.SetArgs(args)
		return r.root.ExecuteContext(ctx)
	}
	return r.forward(ctx, rest)
}

// split consumes leading global flags and reports whether the remainder is
// for oscal-cli.
func (r *Registry) split(args []string) (bool, []string) {
	for i, arg := range args {
		switch arg {
		case "--json":
			r.app.JSON = true
			continue
		case "--no-progress":
			r.app.NoProgress = true
			continue
		}
		if r.isOwn(arg) {
			return false, nil
		}
		return true, args[i:]
	}
	return false, nil
}

func (r *Registry) isOwn(arg string) bool {
	switch arg {
	case "help", "-h", "--help", "completion":
		return true
	}
	if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
		return false
	}
	for _, cmd := range r.root.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}

func (r *Registry) forward(ctx context.Context, args []string) error {
	if err := r.app.ensureInstalled(ctx); err != nil {
		return err
	}
	r.app.Logger.Debug().Strs("args", args).Msg("forwarding to oscal-cli")
	_, err := r.app.Tool.Run(ctx, args[0], args[1:]...)
	var procErr *runner.ProcessError
	if errors.As(err, &procErr) {
		return &ExitError{Code: procErr.ExitCode}
	}
	return err
}
