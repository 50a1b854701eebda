package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"oscalctl/internal/runner"
)

// Execute runs oscalctl with the process arguments and exits.
func Execute() {
	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	err = NewRegistry(app).Dispatch(context.Background(), os.Args[1:])
	app.Close()
	if err != nil {
		os.Exit(reportError(app, err))
	}
}

// reportError prints err and returns the process exit code for it.
func reportError(app *App, err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	fmt.Fprintf(app.Stderr, "error: %v\n", err)
	var procErr *runner.ProcessError
	if errors.As(err, &procErr) && procErr.ExitCode > 0 {
		return procErr.ExitCode
	}
	return 1
}

func (r *Registry) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oscalctl [command] | [oscal-cli args...]",
		Short: "Install and run oscal-cli",
		Long: "oscalctl installs oscal-cli from Maven Central and forwards any\n" +
			"arguments that are not its own commands to the installed tool.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&r.app.JSON, "json", r.app.JSON, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&r.app.NoProgress, "no-progress", r.app.NoProgress, "Disable spinners and interactive prompts")

	cmd.SetIn(r.app.Stdin)
	cmd.SetOut(r.app.Stdout)
	cmd.SetErr(r.app.Stderr)

	cmd.AddCommand(r.newUseCmd())
	cmd.AddCommand(r.newVersionsCmd())
	cmd.AddCommand(r.newStatusCmd())
	cmd.AddCommand(r.newSniffCmd())
	cmd.AddCommand(r.newValidateCmd())
	cmd.AddCommand(r.newExecCmd())

	return cmd
}
