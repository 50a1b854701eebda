package tools

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"oscalctl/internal/paths"
)

// Installer downloads oscal-cli releases into a prefix-derived layout and
// exposes them through an alias on the search path.
type Installer struct {
	Client       *http.Client
	MetadataURL  string
	DownloadBase string
	Layout       paths.Layout
	GOOS         string
	Logger       zerolog.Logger

	// LookPath resolves executables on the search path; exec.LookPath when nil.
	LookPath func(string) (string, error)
}

// NewInstaller returns an Installer for the host platform.
func NewInstaller(layout paths.Layout, metadataURL, downloadBase string, timeout time.Duration, logger zerolog.Logger) *Installer {
	return &Installer{
		Client:       &http.Client{Timeout: timeout},
		MetadataURL:  metadataURL,
		DownloadBase: downloadBase,
		Layout:       layout,
		GOOS:         runtime.GOOS,
		Logger:       logger,
	}
}

func (i *Installer) client() *http.Client {
	if i.Client != nil {
		return i.Client
	}
	return http.DefaultClient
}

func (i *Installer) goos() string {
	if i.GOOS != "" {
		return i.GOOS
	}
	return runtime.GOOS
}

// Install downloads and installs the version named by selector ("latest" or an
// explicit version). An unpublished version is not an error: the result comes
// back Skipped with the valid choices and nothing is written.
func (i *Installer) Install(ctx context.Context, selector string) (InstallResult, error) {
	versions, err := i.ListVersions(ctx)
	if err != nil {
		return InstallResult{}, err
	}

	version, known := resolveSelector(versions, selector)
	if !known {
		i.Logger.Warn().
			Str("requested", version).
			Strs("available", versions.All).
			Msg("unknown oscal-cli version; nothing installed")
		return InstallResult{
			Skipped:   true,
			Requested: version,
			Available: append([]string(nil), versions.All...),
		}, nil
	}

	return i.installVersion(ctx, version)
}

func (i *Installer) installVersion(ctx context.Context, version string) (InstallResult, error) {
	goos := i.goos()
	layout := i.Layout
	entry := layout.EntryPoint(goos)
	alias := layout.AliasPath(goos)
	archiveURL := ArchiveURL(i.DownloadBase, version)

	i.Logger.Info().Str("version", version).Str("url", archiveURL).Msg("downloading oscal-cli")

	archivePath, err := i.download(ctx, archiveURL)
	if err != nil {
		return InstallResult{}, &InstallError{Step: "download", Err: err}
	}
	defer func() { _ = os.Remove(archivePath) }()

	if err := os.MkdirAll(layout.InstallDir, 0o755); err != nil {
		return InstallResult{}, &InstallError{Step: "create install dir", Err: err}
	}

	i.Logger.Debug().Str("dir", layout.InstallDir).Msg("extracting archive")
	if err := extractZip(archivePath, layout.InstallDir); err != nil {
		return InstallResult{}, &InstallError{Step: "extract", Err: err}
	}

	if ok, err := paths.FileExists(entry); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("entry point %s missing from archive", entry)
		}
		return InstallResult{}, &InstallError{Step: "locate entry point", Err: err}
	}

	if goos != "windows" {
		if err := os.Chmod(entry, 0o755); err != nil {
			return InstallResult{}, &InstallError{Step: "chmod", Err: err}
		}
	}

	if err := writeAlias(goos, entry, alias); err != nil {
		return InstallResult{}, &InstallError{Step: "alias", Err: err}
	}

	manifest := Manifest{
		Tool:        ToolName,
		Version:     version,
		EntryPoint:  entry,
		Alias:       alias,
		InstalledAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := i.saveManifest(manifest); err != nil {
		return InstallResult{}, &InstallError{Step: "manifest", Err: err}
	}

	i.Logger.Info().Str("version", version).Str("alias", alias).Msg("installed oscal-cli")
	return InstallResult{
		Version:    version,
		InstallDir: layout.InstallDir,
		EntryPoint: entry,
		Alias:      alias,
	}, nil
}

// download fetches url into a temp file and returns its path.
func (i *Installer) download(ctx context.Context, downloadURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := i.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %w", ErrNetwork, downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: download %s: unexpected status %s", ErrNetwork, downloadURL, resp.Status)
	}

	tmpFile, err := os.CreateTemp("", "oscal-cli-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: write temp file: %w", ErrNetwork, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}

func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(target+string(os.PathSeparator), root) {
			return fmt.Errorf("zip entry %s escapes install dir", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare file %s: %w", target, err)
		}
		if err := extractZipFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("copy file %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// writeAlias replaces any existing alias with a symlink (unix) or a batch shim
// forwarding every argument (windows).
func writeAlias(goos, entry, alias string) error {
	if err := os.MkdirAll(filepath.Dir(alias), 0o755); err != nil {
		return fmt.Errorf("create alias dir: %w", err)
	}

	if _, err := os.Lstat(alias); err == nil {
		if err := os.Remove(alias); err != nil {
			return fmt.Errorf("remove existing alias: %w", err)
		}
	}

	if goos == "windows" {
		shim := fmt.Sprintf("@ECHO off\r\n\"%s\" %%*\r\n", entry)
		if err := os.WriteFile(alias, []byte(shim), 0o755); err != nil {
			return fmt.Errorf("write shim: %w", err)
		}
		return nil
	}

	if err := os.Symlink(entry, alias); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}
