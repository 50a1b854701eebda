package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// mavenMetadata is the subset of maven-metadata.xml the installer reads.
type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// ListVersions fetches the remote version index. Versions keep the index's own
// order; Latest is the designated release.
func (i *Installer) ListVersions(ctx context.Context) (Versions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.MetadataURL, nil)
	if err != nil {
		return Versions{}, fmt.Errorf("%w: create request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := i.client().Do(req)
	if err != nil {
		return Versions{}, fmt.Errorf("%w: fetch %s: %w", ErrNetwork, i.MetadataURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Versions{}, fmt.Errorf("%w: fetch %s: unexpected status %s", ErrNetwork, i.MetadataURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Versions{}, fmt.Errorf("%w: read %s: %w", ErrNetwork, i.MetadataURL, err)
	}

	return parseMetadata(body)
}

func parseMetadata(body []byte) (Versions, error) {
	var meta mavenMetadata
	if err := xml.Unmarshal(body, &meta); err != nil {
		return Versions{}, fmt.Errorf("%w: decode version index: %w", ErrParse, err)
	}

	all := make([]string, 0, len(meta.Versioning.Versions))
	for _, v := range meta.Versioning.Versions {
		if v = strings.TrimSpace(v); v != "" {
			all = append(all, v)
		}
	}
	if len(all) == 0 {
		return Versions{}, fmt.Errorf("%w: version index lists no versions", ErrParse)
	}

	latest := strings.TrimSpace(meta.Versioning.Release)
	if latest == "" {
		latest = strings.TrimSpace(meta.Versioning.Latest)
	}
	if latest == "" {
		latest = all[len(all)-1]
	}

	return Versions{All: all, Latest: latest}, nil
}

// resolveSelector maps "latest" (or empty) to the release; any other value is
// returned as-is with ok reporting whether the index knows it.
func resolveSelector(versions Versions, selector string) (string, bool) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, latestSelector) {
		return versions.Latest, true
	}
	return selector, versions.Contains(selector)
}
