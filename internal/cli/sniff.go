package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oscalctl/internal/sniff"
)

func (r *Registry) newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff FILE...",
		Short: "Classify documents as primary content or constraint sets",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.runSniff,
	}
}

func (r *Registry) runSniff(cmd *cobra.Command, args []string) error {
	var (
		docs []sniff.Document
		errs []error
	)
	for _, path := range args {
		doc, err := sniff.Classify(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}

	if r.app.JSON {
		if err := writeJSON(cmd, docs); err != nil {
			return err
		}
	} else if len(docs) > 0 {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tKIND\tFORMAT\tROOT")
		for _, doc := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", doc.Path, doc.Kind, doc.Format, doc.Root)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}
