package tools

import (
	"fmt"
	"strings"
)

const (
	// ToolName is the executable the alias exposes on the search path.
	ToolName = "oscal-cli"

	artifactID     = "oscal-cli-enhanced"
	artifactSuffix = "oscal-cli"
	latestSelector = "latest"
	userAgent      = "oscalctl/1.0"
)

// ArchiveURL builds the download location of the platform-independent zip for
// version: {base}/{version}/{artifact}-{version}-{suffix}.zip.
func ArchiveURL(base, version string) string {
	return fmt.Sprintf("%s/%s/%s-%s-%s.zip", strings.TrimRight(base, "/"), version, artifactID, version, artifactSuffix)
}

