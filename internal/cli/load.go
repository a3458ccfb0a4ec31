package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/simmeta/internal/core/metadata/library"
	"github.com/zeusync/simmeta/internal/core/metadata/managers"
)

func newLoadCommand(root *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the dataset and report diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := root.app()
			summary, err := app.Library.LoadDataset(cmd.Context())
			if summary == nil {
				return withCode(ExitLoadFailed, "failed to load dataset: %w", err)
			}
			if werr := printSummary(cmd, app.Library, summary); werr != nil {
				return werr
			}
			if err != nil {
				return &ExitError{Code: ExitLoadFailed, Cause: err}
			}
			if strict && summary.Warnings() > 0 {
				return withCode(ExitWarnings, "%d schema warnings", summary.Warnings())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any file produced schema warnings")
	return cmd
}

func printSummary(cmd *cobra.Command, lib *library.Library, s *library.LoadSummary) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tLOADED\tREGISTERED")
	fmt.Fprintln(w, "------\t------\t----------")
	for _, f := range lib.Families() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", f.Name(), s.Loaded[f.Name()], f.NumObjects())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	reports := make([]*managers.Report, 0, len(s.Reports))
	for _, r := range s.Reports {
		if !r.OK() {
			reports = append(reports, r)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Handle < reports[j].Handle })
	for _, r := range reports {
		for _, d := range r.Warnings {
			fmt.Fprintf(out, "warning: %s: %s\n", r.Handle, d)
		}
	}
	for _, path := range s.Failed {
		fmt.Fprintf(out, "failed: %s\n", path)
	}
	fmt.Fprintf(out, "%d unchanged, %d removed, %d warnings, %d failed in %s\n",
		s.Unchanged, s.Removed, s.Warnings(), len(s.Failed), s.Duration.Round(time.Millisecond))
	return nil
}
