package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/autofmu"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.fmu",
		Short: "Show the contents of an FMU archive",
		Long: `Print the model description summary, the archive entries and the archive
digest of an FMU. Model description rule violations are listed as problems; the
command fails when any is found.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("inspect expects exactly one FMU file, got %d", len(args))
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := autofmu.Inspect(args[0])
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}

			printSummary(cmd, sum)
			if len(sum.Problems) > 0 {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s: %d model description problem(s)", args[0], len(sum.Problems))}
			}

			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, sum *autofmu.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "model:      %s\n", sum.ModelName)
	fmt.Fprintf(out, "identifier: %s\n", sum.ModelIdentifier)
	fmt.Fprintf(out, "guid:       %s\n", sum.GUID)
	fmt.Fprintf(out, "tool:       %s\n", sum.GenerationTool)
	fmt.Fprintf(out, "generated:  %s\n", sum.GeneratedAt)
	fmt.Fprintf(out, "inputs:     %s\n", strings.Join(sum.Inputs, ", "))
	fmt.Fprintf(out, "outputs:    %s\n", strings.Join(sum.Outputs, ", "))
	fmt.Fprintf(out, "platforms:  %s\n", strings.Join(sum.Platforms, ", "))
	fmt.Fprintf(out, "digest:     %016x\n", sum.Digest)

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, e := range sum.Entries {
		fmt.Fprintf(tw, "%d\t%s\t\n", e.Size, e.Path)
	}
	_ = tw.Flush()

	for _, p := range sum.Problems {
		fmt.Fprintf(out, "problem: %s\n", p)
	}
}
