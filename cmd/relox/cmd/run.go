package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/themifi/relox/foundation/lox"
	"github.com/themifi/relox/internal/interpreter/service"
)

func newRunCmd(a *app) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Evaluate a script, an expression or stdin",
		Long: `Evaluates one Lox expression and prints its value.

The source is taken from -e, from the named script, or from stdin when
neither is given. A trailing ";" is accepted.

Examples:
  relox run -e '(1 + 2) * 3'
  relox run expr.lox
  echo '"a" + "b"' | relox run`,
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

			ev, err := svc.Evaluate(cmd.Context(), source)
			if err != nil {
				return requestError(err)
			}
			return a.report(cmd, ev)
		},
	}
	addSourceFlags(cmd, &expr)
	return cmd
}

// report prints an evaluation the way the run and eval commands share:
// the value on stdout, errors on stderr, and the exit code for the status
func (a *app) report(cmd *cobra.Command, ev *service.Evaluation) error {
	switch ev.Status {
	case lox.StatusOK:
		fmt.Fprintln(cmd.OutOrStdout(), a.styles.value(ev.Kind, ev.Output))
		return nil
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), a.styles.errorText(ev.Output))
		return exitWith(ev.Status.ExitCode(), nil)
	}
}
