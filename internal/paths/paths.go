package paths

import (
	"fmt"
	"go/build"
	"os"
	"path/filepath"
	"strings"
)

const (
	toolDirName      = "oscal-cli"
	manifestFileName = "oscalctl.json"
)

// Layout captures canonical locations for a managed oscal-cli install.
type Layout struct {
	Prefix       string
	LibDir       string
	InstallDir   string
	BinDir       string
	ManifestFile string
}

// Resolve derives the install layout from a prefix. The tool is extracted into
// <prefix>/lib/oscal-cli and aliased from <prefix>/bin.
func Resolve(prefix string) (Layout, error) {
	if strings.TrimSpace(prefix) == "" {
		return Layout{}, fmt.Errorf("resolve install prefix: empty prefix")
	}
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve install prefix: %w", err)
	}
	return newLayout(abs), nil
}

// ResolveWithBin is Resolve with the alias directory set to binDir. An empty
// binDir keeps <prefix>/bin.
func ResolveWithBin(prefix, binDir string) (Layout, error) {
	layout, err := Resolve(prefix)
	if err != nil {
		return Layout{}, err
	}
	if strings.TrimSpace(binDir) == "" {
		return layout, nil
	}
	abs, err := filepath.Abs(binDir)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve bin dir: %w", err)
	}
	layout.BinDir = abs
	return layout, nil
}

// ResolveDefault resolves the layout Go itself installs into. When GOBIN is
// set the alias goes in GOBIN, whatever its name.
func ResolveDefault() (Layout, error) {
	return ResolveWithBin(DefaultPrefix(), DefaultBinDir())
}

func newLayout(prefix string) Layout {
	lib := filepath.Join(prefix, "lib")
	return Layout{
		Prefix:       prefix,
		LibDir:       lib,
		InstallDir:   filepath.Join(lib, toolDirName),
		BinDir:       filepath.Join(prefix, "bin"),
		ManifestFile: filepath.Join(lib, manifestFileName),
	}
}

// DefaultPrefix returns the prefix Go itself installs binaries under: the
// parent of GOBIN when set, otherwise the first GOPATH entry.
func DefaultPrefix() string {
	if gobin := strings.TrimSpace(os.Getenv("GOBIN")); gobin != "" {
		return filepath.Dir(filepath.Clean(gobin))
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}
	if list := filepath.SplitList(gopath); len(list) > 0 && list[0] != "" {
		return list[0]
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "go"
	}
	return filepath.Join(home, "go")
}

// DefaultBinDir returns GOBIN when set, else "".
func DefaultBinDir() string {
	gobin := strings.TrimSpace(os.Getenv("GOBIN"))
	if gobin == "" {
		return ""
	}
	return filepath.Clean(gobin)
}

// EntryPoint returns the extracted launcher for the given platform.
func (l Layout) EntryPoint(goos string) string {
	name := "oscal-cli"
	if goos == "windows" {
		name += ".bat"
	}
	return filepath.Join(l.InstallDir, "bin", name)
}

// AliasPath returns the search-path-visible alias for the given platform.
func (l Layout) AliasPath(goos string) string {
	name := "oscal-cli"
	if goos == "windows" {
		name += ".cmd"
	}
	return filepath.Join(l.BinDir, name)
}

// LogsDir returns the user-level oscalctl logs directory.
func LogsDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("detect user cache dir: %w", err)
	}
	return filepath.Join(base, "oscalctl", "logs"), nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
