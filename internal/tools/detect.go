package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"oscalctl/internal/paths"
)

// Detect reports the managed install recorded in the manifest and whether the
// alias is what the search path resolves for oscal-cli.
func (i *Installer) Detect(_ context.Context) (Status, error) {
	status := Status{Tool: ToolName}

	manifest, found, err := i.loadManifest()
	if err != nil {
		return status, err
	}

	lookPath := i.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	onPath, lookErr := lookPath(ToolName)

	if found {
		status.Version = manifest.Version
		status.EntryPoint = manifest.EntryPoint
		status.Alias = manifest.Alias
		status.InstalledAt = manifest.InstalledAt
		status.Source = SourceManaged

		if ok, err := paths.FileExists(manifest.EntryPoint); err != nil || !ok {
			status.Error = fmt.Sprintf("entry point %s missing", manifest.EntryPoint)
		}
		if _, err := os.Lstat(manifest.Alias); err != nil {
			status.Notes = append(status.Notes, fmt.Sprintf("alias %s missing", manifest.Alias))
		}
	}

	if lookErr != nil {
		if !found {
			status.Error = fmt.Sprintf("%s not found in PATH", ToolName)
		} else {
			status.Notes = append(status.Notes, fmt.Sprintf("%s is not on PATH; add %s", ToolName, i.Layout.BinDir))
		}
		return status, nil
	}

	status.Path = onPath
	status.OnPath = true
	if !found {
		status.Source = SourceSystem
		return status, nil
	}
	if !samePath(onPath, manifest.Alias) {
		status.Notes = append(status.Notes, fmt.Sprintf("PATH resolves %s to %s, not the managed alias", ToolName, onPath))
	}
	return status, nil
}

func samePath(a, b string) bool {
	ca, errA := filepath.Abs(a)
	cb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return filepath.Clean(ca) == filepath.Clean(cb)
}
