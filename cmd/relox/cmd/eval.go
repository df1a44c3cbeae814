package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/themifi/relox/internal/interpreter/client"
)

// defaultAddr is the server address clients dial when --addr is not given
func (a *app) defaultAddr() string {
	return fmt.Sprintf("localhost:%d", a.cfg.Server.Port)
}

func (a *app) dial(addr string) (*client.Client, error) {
	if addr == "" {
		addr = a.defaultAddr()
	}
	c, err := client.New(client.Config{
		Address: addr,
		Timeout: a.cfg.Server.RequestTimeout.Duration,
		Logger:  a.logger,
	})
	if err != nil {
		return nil, exitWith(exitUnavailable, err)
	}
	return c, nil
}

func newEvalCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate an expression on a running server",
		Long: `Sends the expression to a relox server and prints the result with
the same output and exit codes as run. Arguments are joined with spaces.

Examples:
  relox eval '1 + 2'
  relox eval --addr 10.0.0.5:9190 '"lo" + "x"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.dial(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			ev, err := c.Evaluate(ctx, strings.Join(args, " "))
			if err != nil {
				return rpcError(err)
			}
			return a.report(cmd, ev)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "server address (default: localhost:<server.port>)")
	return cmd
}
