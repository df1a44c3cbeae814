// Package api describes the relox.v1.Interpreter gRPC service. Requests and
// responses travel as google.protobuf.Struct so no generated code is needed;
// messages.go maps them to service types.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "relox.v1.Interpreter"

// Full method names
const (
	EvaluateMethod = "/" + ServiceName + "/Evaluate"
	TokenizeMethod = "/" + ServiceName + "/Tokenize"
	ParseMethod    = "/" + ServiceName + "/Parse"
	HistoryMethod  = "/" + ServiceName + "/History"
)

// InterpreterServer is the server API for the Interpreter service
type InterpreterServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterInterpreterServer registers srv on s
func RegisterInterpreterServer(s grpc.ServiceRegistrar, srv InterpreterServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type call func(InterpreterServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(fullMethod string, fn call) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(InterpreterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(srv.(InterpreterServer), ctx, req.(*structpb.Struct))
		})
	}
}

// ServiceDesc is the grpc.ServiceDesc for the Interpreter service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InterpreterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: handler(EvaluateMethod, InterpreterServer.Evaluate)},
		{MethodName: "Tokenize", Handler: handler(TokenizeMethod, InterpreterServer.Tokenize)},
		{MethodName: "Parse", Handler: handler(ParseMethod, InterpreterServer.Parse)},
		{MethodName: "History", Handler: handler(HistoryMethod, InterpreterServer.History)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "relox/v1/interpreter.proto",
}

// InterpreterClient is the client API for the Interpreter service
type InterpreterClient interface {
	Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Tokenize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type interpreterClient struct {
	cc grpc.ClientConnInterface
}

// NewInterpreterClient creates a client stub on cc
func NewInterpreterClient(cc grpc.ClientConnInterface) InterpreterClient {
	return &interpreterClient{cc: cc}
}

func (c *interpreterClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *interpreterClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EvaluateMethod, in, opts)
}

func (c *interpreterClient) Tokenize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TokenizeMethod, in, opts)
}

func (c *interpreterClient) Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ParseMethod, in, opts)
}

func (c *interpreterClient) History(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistoryMethod, in, opts)
}
