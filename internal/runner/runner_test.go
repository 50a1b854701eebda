package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts require a unix host")
	}
	path := filepath.Join(t.TempDir(), "oscal-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func scriptRunner(path string) *Runner {
	return &Runner{
		Tool:     "oscal-cli",
		Spawner:  DirectSpawner{},
		LookPath: func(string) (string, error) { return path, nil },
	}
}

type countingIndicator struct {
	starts, stops int
}

func (c *countingIndicator) Start() { c.starts++ }
func (c *countingIndicator) Stop()  { c.stops++ }

func TestRunCapturesOutput(t *testing.T) {
	script := writeScript(t, `echo "command=$1 rest=$2"
echo "warning: deprecated flag" 1>&2
exit 0
`)
	r := scriptRunner(script)
	progress := &countingIndicator{}
	r.Progress = progress

	res, err := r.Run(context.Background(), "validate", "catalog.xml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Stdout != "command=validate rest=catalog.xml\n" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
	if res.Stderr != "warning: deprecated flag\n" {
		t.Fatalf("stderr on success must be kept, got %q", res.Stderr)
	}
	if progress.starts != 1 || progress.stops != 1 {
		t.Fatalf("expected indicator started and stopped once, got %d/%d", progress.starts, progress.stops)
	}
}

func TestRunMirrorsLiveOutput(t *testing.T) {
	script := writeScript(t, "echo out\necho err 1>&2\n")
	r := scriptRunner(script)
	var liveOut, liveErr bytes.Buffer
	r.Stdout = &liveOut
	r.Stderr = &liveErr

	res, err := r.Run(context.Background(), "--version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if liveOut.String() != res.Stdout || liveErr.String() != res.Stderr {
		t.Fatalf("live output diverged from capture: %q/%q vs %q/%q", liveOut.String(), liveErr.String(), res.Stdout, res.Stderr)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	script := writeScript(t, `printf 'partial\n'
printf 'line one\nline two: bad input\n' 1>&2
exit 3
`)
	r := scriptRunner(script)
	progress := &countingIndicator{}
	r.Progress = progress

	_, err := r.Run(context.Background(), "validate")
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessError, got %v", err)
	}
	if procErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", procErr.ExitCode)
	}
	if procErr.Stderr != "line one\nline two: bad input\n" {
		t.Fatalf("stderr must match exactly, got %q", procErr.Stderr)
	}
	if procErr.Stdout != "partial\n" {
		t.Fatalf("unexpected stdout %q", procErr.Stdout)
	}
	if !strings.Contains(procErr.Error(), "code 3") {
		t.Fatalf("error should mention exit code: %s", procErr.Error())
	}
	if progress.stops != 1 {
		t.Fatal("indicator must be stopped on failure")
	}
}

func TestRunSpawnFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are unix-only")
	}
	path := filepath.Join(t.TempDir(), "oscal-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := scriptRunner(path)
	progress := &countingIndicator{}
	r.Progress = progress

	_, err := r.Run(context.Background(), "--version")
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
	if progress.starts != 0 {
		t.Fatal("indicator must not start when the child never spawned")
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	r := New("oscal-cli-definitely-missing")

	if _, err := r.Locate(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Run(context.Background(), "--version"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("run should surface ErrNotFound, got %v", err)
	}
}

func TestLocateUsesSearchPath(t *testing.T) {
	script := writeScript(t, "exit 0\n")
	t.Setenv("PATH", filepath.Dir(script))

	r := New("oscal-cli")
	got, err := r.Locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != script {
		t.Fatalf("expected %s, got %s", script, got)
	}
}

func TestSpawnerSelection(t *testing.T) {
	if _, ok := SpawnerFor("windows").(ShellSpawner); !ok {
		t.Fatal("windows must use the shell spawner")
	}
	if _, ok := SpawnerFor("linux").(DirectSpawner); !ok {
		t.Fatal("linux must use the direct spawner")
	}
}

func TestShellSpawnerCommandLine(t *testing.T) {
	cmd := ShellSpawner{}.Command(context.Background(), `C:\Program Files\go\bin\oscal-cli.cmd`, []string{"validate", "my doc.xml", "-o", "out.json"})
	want := []string{"cmd.exe", "/d", "/s", "/c", `""C:\Program Files\go\bin\oscal-cli.cmd" validate "my doc.xml" -o out.json"`}
	if len(cmd.Args) != len(want) {
		t.Fatalf("expected args %q, got %q", want, cmd.Args)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("arg %d: expected %q, got %q", i, want[i], cmd.Args[i])
		}
	}
}
