package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLayout(t *testing.T) {
	root := t.TempDir()
	layout, err := Resolve(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if layout.InstallDir != filepath.Join(root, "lib", "oscal-cli") {
		t.Fatalf("unexpected install dir %s", layout.InstallDir)
	}
	if layout.BinDir != filepath.Join(root, "bin") {
		t.Fatalf("unexpected bin dir %s", layout.BinDir)
	}
	if layout.ManifestFile != filepath.Join(root, "lib", "oscalctl.json") {
		t.Fatalf("unexpected manifest %s", layout.ManifestFile)
	}
}

func TestResolveEmptyPrefix(t *testing.T) {
	if _, err := Resolve("  "); err == nil {
		t.Fatal("expected error for empty prefix")
	}
}

func TestPlatformNames(t *testing.T) {
	layout, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if got := filepath.Base(layout.EntryPoint("linux")); got != "oscal-cli" {
		t.Fatalf("expected unix entry oscal-cli, got %s", got)
	}
	if got := filepath.Base(layout.EntryPoint("windows")); got != "oscal-cli.bat" {
		t.Fatalf("expected windows entry oscal-cli.bat, got %s", got)
	}
	if got := filepath.Base(layout.AliasPath("darwin")); got != "oscal-cli" {
		t.Fatalf("expected unix alias oscal-cli, got %s", got)
	}
	if got := filepath.Base(layout.AliasPath("windows")); got != "oscal-cli.cmd" {
		t.Fatalf("expected windows alias oscal-cli.cmd, got %s", got)
	}
}

func TestDefaultPrefixPrefersGOBIN(t *testing.T) {
	gobin := filepath.Join(t.TempDir(), "tools", "bin")
	t.Setenv("GOBIN", gobin)

	if got := DefaultPrefix(); got != filepath.Dir(gobin) {
		t.Fatalf("expected %s, got %s", filepath.Dir(gobin), got)
	}
}

func TestResolveDefaultKeepsGOBINAsBinDir(t *testing.T) {
	root := t.TempDir()
	gobin := filepath.Join(root, "gobin")
	t.Setenv("GOBIN", gobin)

	layout, err := ResolveDefault()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if layout.BinDir != gobin {
		t.Fatalf("expected alias dir %s, got %s", gobin, layout.BinDir)
	}
	if layout.InstallDir != filepath.Join(root, "lib", "oscal-cli") {
		t.Fatalf("unexpected install dir %s", layout.InstallDir)
	}
	if got := layout.AliasPath("linux"); got != filepath.Join(gobin, "oscal-cli") {
		t.Fatalf("unexpected alias %s", got)
	}
}

func TestResolveDefaultWithoutGOBIN(t *testing.T) {
	gopath := t.TempDir()
	t.Setenv("GOBIN", "")
	t.Setenv("GOPATH", gopath)

	layout, err := ResolveDefault()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if layout.BinDir != filepath.Join(gopath, "bin") {
		t.Fatalf("expected %s, got %s", filepath.Join(gopath, "bin"), layout.BinDir)
	}
}

func TestDefaultPrefixUsesFirstGOPATH(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	t.Setenv("GOBIN", "")
	t.Setenv("GOPATH", first+string(os.PathListSeparator)+second)

	if got := DefaultPrefix(); got != first {
		t.Fatalf("expected %s, got %s", first, got)
	}
}

func TestExistsHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "entry")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if ok, err := FileExists(file); err != nil || !ok {
		t.Fatalf("expected file to exist: ok=%v err=%v", ok, err)
	}
	if ok, err := FileExists(dir); err != nil || ok {
		t.Fatalf("directory must not count as file: ok=%v err=%v", ok, err)
	}
	if ok, err := DirExists(dir); err != nil || !ok {
		t.Fatalf("expected dir to exist: ok=%v err=%v", ok, err)
	}
	if ok, err := DirExists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("expected missing dir: ok=%v err=%v", ok, err)
	}
}
