package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newASTCmd(a *app) *cobra.Command {
	var expr string
	var depth bool

	cmd := &cobra.Command{
		Use:   "ast [script]",
		Short: "Print the expression tree",
		Long: `Parses the source and prints the tree in parenthesized prefix form,
e.g. (* (group (+ 1 2)) 3). Nothing is evaluated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.readSource(cmd, args, expr)
			if err != nil {
				return err
			}

			svc, closeFn, err := a.localService()
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := svc.Parse(cmd.Context(), source)
			if err != nil {
				return requestError(err)
			}
			if len(out.Diagnostics) > 0 {
				return a.reportDiagnostics(cmd, out.Diagnostics)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Tree)
			if depth {
				fmt.Fprintln(cmd.OutOrStdout(), a.styles.mutedText(fmt.Sprintf("depth %d", out.Depth)))
			}
			return nil
		},
	}
	addSourceFlags(cmd, &expr)
	cmd.Flags().BoolVar(&depth, "depth", false, "also print the tree height")
	return cmd
}
