package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oscalctl/internal/tui"
)

func (r *Registry) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed oscal-cli and alias health",
		Args:  cobra.NoArgs,
		RunE:  r.runStatus,
	}
}

func (r *Registry) runStatus(cmd *cobra.Command, _ []string) error {
	app := r.app
	status, err := app.Installer.Detect(cmd.Context())
	if err != nil {
		return err
	}

	if app.JSON {
		return writeJSON(cmd, status)
	}

	onPath := "no"
	if status.OnPath {
		onPath = "yes"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "Tool:\t%s\n", status.Tool)
	fmt.Fprintf(w, "Version:\t%s\n", tui.NonEmptyOrDash(status.Version))
	fmt.Fprintf(w, "Source:\t%s\n", tui.NonEmptyOrDash(string(status.Source)))
	fmt.Fprintf(w, "Prefix:\t%s\n", app.Layout.Prefix)
	fmt.Fprintf(w, "Install dir:\t%s\n", app.Layout.InstallDir)
	fmt.Fprintf(w, "Entry point:\t%s\n", tui.NonEmptyOrDash(status.EntryPoint))
	fmt.Fprintf(w, "Alias:\t%s\n", tui.NonEmptyOrDash(status.Alias))
	fmt.Fprintf(w, "Installed at:\t%s\n", tui.NonEmptyOrDash(status.InstalledAt))
	fmt.Fprintf(w, "On PATH:\t%s\n", onPath)
	fmt.Fprintf(w, "Resolved path:\t%s\n", tui.NonEmptyOrDash(status.Path))
	if err := w.Flush(); err != nil {
		return err
	}

	if status.Error != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.StatusStyle("error").Render("error:"), status.Error)
	}
	for _, note := range status.Notes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.StatusStyle("warning").Render("note:"), note)
	}
	return nil
}
