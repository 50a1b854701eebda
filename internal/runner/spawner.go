package runner

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// Spawner builds the child process for a located binary. One variant is
// chosen at start-up for the host platform.
type Spawner interface {
	Command(ctx context.Context, path string, args []string) *exec.Cmd
}

// DirectSpawner execs the binary itself.
type DirectSpawner struct{}

func (DirectSpawner) Command(ctx context.Context, path string, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, path, args...)
}

// ShellSpawner runs the binary through a command interpreter with the command
// line passed verbatim. The Windows alias is a batch shim, which cannot be
// started without cmd.exe.
type ShellSpawner struct {
	Interpreter string
}

func (s ShellSpawner) Command(ctx context.Context, path string, args []string) *exec.Cmd {
	interpreter := s.Interpreter
	if interpreter == "" {
		interpreter = "cmd.exe"
	}
	line := commandLine(path, args)
	cmd := exec.CommandContext(ctx, interpreter, "/d", "/s", "/c", line)
	setVerbatim(cmd, interpreter, line)
	return cmd
}

// SpawnerFor selects the spawner for goos.
func SpawnerFor(goos string) Spawner {
	if goos == "windows" {
		return ShellSpawner{}
	}
	return DirectSpawner{}
}

// DefaultSpawner returns the spawner for the running platform.
func DefaultSpawner() Spawner {
	return SpawnerFor(runtime.GOOS)
}

// commandLine quotes path and args for cmd.exe's /s /c handling, which strips
// one outer pair of quotes from the whole line.
func commandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(path))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return `"` + strings.Join(parts, " ") + `"`
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\"&|<>^()%!,;=") {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `""`) + `"`
}
