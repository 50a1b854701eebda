package tools

type Source string

const (
	SourceUnknown Source = ""
	SourceManaged Source = "managed"
	SourceSystem  Source = "system"
)

// Status captures the resolved state of the oscal-cli install.
type Status struct {
	Tool        string   `json:"tool"`
	Version     string   `json:"version,omitempty"`
	Source      Source   `json:"source"`
	Path        string   `json:"path,omitempty"`
	EntryPoint  string   `json:"entry_point,omitempty"`
	Alias       string   `json:"alias,omitempty"`
	InstalledAt string   `json:"installed_at,omitempty"`
	OnPath      bool     `json:"on_path"`
	Error       string   `json:"error,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Versions is the remote index: every published version in index order plus
// the designated release.
type Versions struct {
	All    []string `json:"all"`
	Latest string   `json:"latest"`
}

// Contains reports whether v is a published version.
func (v Versions) Contains(version string) bool {
	for _, candidate := range v.All {
		if candidate == version {
			return true
		}
	}
	return false
}

// InstallResult describes the outcome of an install. Skipped is set when the
// requested version is not published; nothing on disk changes in that case.
type InstallResult struct {
	Version    string   `json:"version,omitempty"`
	InstallDir string   `json:"install_dir,omitempty"`
	EntryPoint string   `json:"entry_point,omitempty"`
	Alias      string   `json:"alias,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
	Requested  string   `json:"requested,omitempty"`
	Available  []string `json:"available,omitempty"`
}

// Manifest records the managed install so status checks need no network.
type Manifest struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	EntryPoint  string `json:"entry_point"`
	Alias       string `json:"alias"`
	InstalledAt string `json:"installed_at"`
}
