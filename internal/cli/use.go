package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oscalctl/internal/tools"
	"oscalctl/internal/tui"
)

func (r *Registry) newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [version|latest]",
		Short: "Install or switch the oscal-cli version",
		Long: "Install the given oscal-cli version and point the alias at it.\n" +
			"Without a version, choose one interactively.",
		Args: cobra.MaximumNArgs(1),
		RunE: r.runUse,
	}
	return cmd
}

func (r *Registry) runUse(cmd *cobra.Command, args []string) error {
	app := r.app
	ctx := cmd.Context()

	selector := ""
	if len(args) == 1 {
		selector = strings.TrimSpace(args[0])
	}
	if selector == "" {
		picked, err := r.promptVersion(cmd)
		if err != nil {
			return err
		}
		selector = picked
	}

	var res tools.InstallResult
	err := app.withStatus("installing oscal-cli "+selector, func() error {
		var err error
		res, err = app.Installer.Install(ctx, selector)
		return err
	})
	if err != nil {
		return err
	}

	if app.JSON {
		return writeJSON(cmd, res)
	}
	if res.Skipped {
		cmd.Printf("%s %s is not a published oscal-cli version\n", tui.StatusStyle("skipped").Render("skipped"), res.Requested)
		cmd.Printf("available: %s\n", strings.Join(res.Available, ", "))
		return nil
	}
	cmd.Printf("%s oscal-cli %s\n", tui.StatusStyle("installed").Render("installed"), res.Version)
	cmd.Printf("  install dir: %s\n", res.InstallDir)
	cmd.Printf("  alias:       %s\n", res.Alias)
	return nil
}

// promptVersion lets the user pick from the published versions.
func (r *Registry) promptVersion(cmd *cobra.Command) (string, error) {
	app := r.app
	if app.NoProgress || app.JSON || !app.interactive() {
		return "", errors.New("a version is required when not running interactively (try: oscalctl use latest)")
	}

	var versions tools.Versions
	err := app.withStatus("fetching versions", func() error {
		var err error
		versions, err = app.Installer.ListVersions(cmd.Context())
		return err
	})
	if err != nil {
		return "", err
	}

	installed := ""
	if status, err := app.Installer.Detect(cmd.Context()); err == nil {
		installed = status.Version
	}

	picked, err := app.pickVersion(versions.All, versions.Latest, installed)
	if err != nil {
		return "", fmt.Errorf("select version: %w", err)
	}
	return picked, nil
}
