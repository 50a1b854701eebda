package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type versionsReport struct {
	Versions  []string `json:"versions"`
	Latest    string   `json:"latest"`
	Installed string   `json:"installed,omitempty"`
}

func (r *Registry) newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List published oscal-cli versions",
		Args:  cobra.NoArgs,
		RunE:  r.runVersions,
	}
}

func (r *Registry) runVersions(cmd *cobra.Command, _ []string) error {
	app := r.app
	versions, err := app.Installer.ListVersions(cmd.Context())
	if err != nil {
		return err
	}

	report := versionsReport{Versions: versions.All, Latest: versions.Latest}
	if status, err := app.Installer.Detect(cmd.Context()); err == nil {
		report.Installed = status.Version
	} else {
		app.Logger.Debug().Err(err).Msg("could not read install manifest")
	}

	if app.JSON {
		return writeJSON(cmd, report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tTAGS")
	for i := len(report.Versions) - 1; i >= 0; i-- {
		v := report.Versions[i]
		var tags []string
		if v == report.Latest {
			tags = append(tags, "latest")
		}
		if v == report.Installed {
			tags = append(tags, "installed")
		}
		fmt.Fprintf(w, "%s\t%s\n", v, strings.Join(tags, ","))
	}
	return w.Flush()
}
