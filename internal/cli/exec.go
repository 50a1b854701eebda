package cli

import (
	"github.com/spf13/cobra"
)

func (r *Registry) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- ARGS...",
		Short: "Run oscal-cli with ARGS verbatim",
		Long: "Run oscal-cli with ARGS exactly as given, installing it first when\n" +
			"needed. Reaches oscal-cli commands that share a name with ours.",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return r.forward(cmd.Context(), args)
		},
	}
}
