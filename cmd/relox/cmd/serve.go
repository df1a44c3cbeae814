package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/themifi/relox/internal/interpreter/server"
)

func newServeCmd(a *app) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC interpreter service",
		Long: `Starts the relox.v1.Interpreter gRPC service and the standard
grpc.health.v1 service. Settings come from the [server], [interpreter],
[cache] and [journal] sections of the config file. SIGINT or SIGTERM
drains in-flight calls for up to server.shutdown_timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return exitWith(exitConfig, err)
			}

			srv, err := server.New(a.cfg, server.Options{Logger: a.logger})
			if err != nil {
				return exitWith(exitUnavailable, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.StartAsync(); err != nil {
				srv.Stop(context.Background())
				return exitWith(exitUnavailable, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", a.styles.headerText("relox listening on"), srv.Address())

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
			defer cancel()
			srv.Stop(shutdownCtx)
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}
