package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// requestContext bounds a remote call by server.request_timeout
func (a *app) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := a.cfg.Server.RequestTimeout.Duration
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// rpcError maps a failed call to an exit code
func rpcError(err error) error {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return exitWith(exitDataErr, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return exitWith(exitUnavailable, err)
	default:
		return exitWith(exitSoftware, err)
	}
}
