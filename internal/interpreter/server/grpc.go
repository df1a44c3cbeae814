package server

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/themifi/relox/internal/interpreter/api"
)

// Ensure Server implements InterpreterServer
var _ api.InterpreterServer = (*Server)(nil)

// Evaluate implements InterpreterServer.Evaluate
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := api.SourceFrom(req)
	if err != nil {
		return nil, err
	}

	ev, err := s.service.Evaluate(ctx, source)
	if err != nil {
		return nil, err
	}
	return api.EncodeEvaluation(ev), nil
}

// Tokenize implements InterpreterServer.Tokenize
func (s *Server) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := api.SourceFrom(req)
	if err != nil {
		return nil, err
	}

	out, err := s.service.Tokenize(ctx, source)
	if err != nil {
		return nil, err
	}
	return api.EncodeTokenization(out), nil
}

// Parse implements InterpreterServer.Parse
func (s *Server) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := api.SourceFrom(req)
	if err != nil {
		return nil, err
	}

	out, err := s.service.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return api.EncodeParseResult(out), nil
}

// History implements InterpreterServer.History
func (s *Server) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entries, err := s.service.History(ctx, api.LimitFrom(req))
	if err != nil {
		return nil, err
	}
	return api.EncodeHistory(entries), nil
}
