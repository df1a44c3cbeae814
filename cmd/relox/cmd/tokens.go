package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	var expr string
	var lines bool

	cmd := &cobra.Command{
		Use:   "tokens [script]",
		Short: "Print the token stream",
		Long: `Scans the source and prints one token per line as KIND LITERAL,
e.g. NUMBER 2.3 or STRING "hi". Lexical errors go to stderr and exit
with 65; the tokens scanned around them are still printed.`,
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

			out, err := svc.Tokenize(cmd.Context(), source)
			if err != nil {
				return requestError(err)
			}

			w := cmd.OutOrStdout()
			for _, tok := range out.Tokens {
				if lines {
					fmt.Fprintf(w, "%s %s\n", a.styles.mutedText(fmt.Sprintf("%4d", tok.Line)), tok.Display)
					continue
				}
				fmt.Fprintln(w, tok.Display)
			}
			return a.reportDiagnostics(cmd, out.Diagnostics)
		},
	}
	addSourceFlags(cmd, &expr)
	cmd.Flags().BoolVarP(&lines, "lines", "l", false, "prefix each token with its line")
	return cmd
}

// reportDiagnostics prints diagnostics to stderr and fails with 65 when
// there are any
func (a *app) reportDiagnostics(cmd *cobra.Command, diagnostics []string) error {
	if len(diagnostics) == 0 {
		return nil
	}
	for _, d := range diagnostics {
		fmt.Fprintln(cmd.ErrOrStderr(), a.styles.errorText(d))
	}
	return exitWith(exitDataErr, nil)
}
