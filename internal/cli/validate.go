package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oscalctl/internal/sarif"
	"oscalctl/internal/sniff"
	"oscalctl/internal/tui"
)

const messageWidth = 72

type validateOptions struct {
	constraints []string
	sarifOut    string
	showPass    bool
}

type validateReport struct {
	Document    sniff.Document   `json:"document"`
	Constraints []sniff.Document `json:"constraints,omitempty"`
	Summary     sarif.Summary    `json:"summary"`
	Results     []sarif.Result   `json:"results"`
}

func (r *Registry) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate an OSCAL document and report findings",
		Long: "Validate FILE with oscal-cli, optionally against extra constraint sets,\n" +
			"and print the findings from the result log. Use `oscalctl exec -- validate`\n" +
			"to run oscal-cli's own validate command untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runValidate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.constraints, "constraint", "c", nil, "Constraint set to apply (repeatable)")
	cmd.Flags().StringVar(&opts.sarifOut, "sarif-out", "", "Write the result log to this path")
	cmd.Flags().BoolVar(&opts.showPass, "show-pass", false, "Include passing results in the table")
	return cmd
}

func (r *Registry) runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	app := r.app
	ctx := cmd.Context()

	doc, err := sniff.Classify(path)
	if err != nil {
		return err
	}
	if doc.Kind != sniff.KindPrimary {
		return fmt.Errorf("%s is a %s document; pass it with -c", path, doc.Kind)
	}

	args := []string{path}
	var constraints []sniff.Document
	for _, c := range opts.constraints {
		cdoc, err := sniff.Classify(c)
		if err != nil {
			return err
		}
		if cdoc.Kind != sniff.KindConstraintSet {
			return fmt.Errorf("%s is not a constraint set (root %q)", c, cdoc.Root)
		}
		constraints = append(constraints, cdoc)
		args = append(args, "-c", c)
	}

	if err := app.ensureInstalled(ctx); err != nil {
		return err
	}

	reader := app.reader()
	log, err := reader.ValidateWithLog(ctx, args...)
	if err != nil {
		return err
	}

	if opts.sarifOut != "" {
		if err := saveLog(log, opts.sarifOut); err != nil {
			return err
		}
		app.Logger.Info().Str("path", opts.sarifOut).Msg("wrote result log")
	}

	summary := sarif.Summarize(log)
	report := validateReport{Document: doc, Constraints: constraints, Summary: summary}
	for _, run := range log.Runs {
		report.Results = append(report.Results, run.Results...)
	}

	if app.JSON {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else if err := printFindings(cmd, report, opts.showPass); err != nil {
		return err
	}

	if summary.Failed() {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", path, summary.Errors, summary.Warnings)
	}
	return nil
}

func printFindings(cmd *cobra.Command, report validateReport, showPass bool) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tRULE\tLOCATION\tMESSAGE")
	for _, res := range report.Results {
		level := resultLevel(res)
		if level == sarif.KindPass && !showPass {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			level,
			tui.NonEmptyOrDash(res.RuleID),
			tui.NonEmptyOrDash(res.Location()),
			tui.TruncateWithEllipsis(oneLine(res.Message.Text), messageWidth),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := report.Summary
	verdict := "pass"
	if s.Failed() {
		verdict = "fail"
	}
	fmt.Fprintf(out, "\n%s %s: %d result(s), %d passed, %d error(s), %d warning(s), %d note(s)\n",
		tui.StatusStyle(verdict).Render(verdict),
		report.Document.Path, s.Total, s.Pass, s.Errors, s.Warnings, s.Notes)
	return nil
}

func resultLevel(res sarif.Result) string {
	if res.Kind == sarif.KindPass {
		return sarif.KindPass
	}
	if res.Level == "" {
		return sarif.LevelWarning
	}
	return res.Level
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func saveLog(log *sarif.Log, path string) error {
	data, err := sarif.Encode(log)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result log: %w", err)
	}
	return nil
}
