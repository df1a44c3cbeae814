package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

// CodeFor maps an error code to a gRPC status code
func CodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeLoxLexical, mdwerror.CodeLoxSyntax, mdwerror.CodeLoxDepth,
		mdwerror.CodeLoxRuntime, mdwerror.CodeInvalidInput:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// StatusFromError converts err into a gRPC status error. Errors that already
// carry a status pass through; context errors keep their canonical codes.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}

	var e *mdwerror.Error
	if errors.As(err, &e) {
		return status.Error(CodeFor(e.Code()), e.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
