package client

import (
	"context"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/internal/interpreter/api"
	"github.com/themifi/relox/internal/interpreter/service"
	"github.com/themifi/relox/internal/interpreter/store"
	coreGrpc "github.com/themifi/relox/pkg/core/grpc"
	"github.com/themifi/relox/pkg/core/logging"
)

// Config holds client configuration
type Config struct {
	Address     string
	Timeout     time.Duration
	Logger      *logging.Logger
	DialOptions []grpc.DialOption
}

// DefaultConfig returns a client configuration for a local server
func DefaultConfig() Config {
	return Config{
		Address: "localhost:9190",
		Timeout: 10 * time.Second,
	}
}

// Client talks to a relox server
type Client struct {
	conn   *grpc.ClientConn
	api    api.InterpreterClient
	health healthpb.HealthClient
	logger *logging.Logger
}

// New dials the server
func New(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, mdwerror.New("server address is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("client.New")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("relox-client")
	}

	grpcCfg := coreGrpc.DefaultClientConfig(cfg.Address)
	if cfg.Timeout > 0 {
		grpcCfg.Timeout = cfg.Timeout
	}
	grpcCfg.Logger = logger

	conn, err := coreGrpc.Dial(grpcCfg, cfg.DialOptions...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to connect").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("client.New").
			WithDetail("address", cfg.Address)
	}

	return &Client{
		conn:   conn,
		api:    api.NewInterpreterClient(conn),
		health: healthpb.NewHealthClient(conn),
		logger: logger,
	}, nil
}

// Evaluate runs source on the server
func (c *Client) Evaluate(ctx context.Context, source string) (*service.Evaluation, error) {
	resp, err := c.api.Evaluate(ctx, api.SourceRequest(source))
	if err != nil {
		return nil, err
	}
	return api.DecodeEvaluation(resp)
}

// Tokenize scans source on the server
func (c *Client) Tokenize(ctx context.Context, source string) (*service.Tokenization, error) {
	resp, err := c.api.Tokenize(ctx, api.SourceRequest(source))
	if err != nil {
		return nil, err
	}
	return api.DecodeTokenization(resp), nil
}

// Parse parses source on the server
func (c *Client) Parse(ctx context.Context, source string) (*service.ParseResult, error) {
	resp, err := c.api.Parse(ctx, api.SourceRequest(source))
	if err != nil {
		return nil, err
	}
	return api.DecodeParseResult(resp), nil
}

// History lists the server's most recent evaluations
func (c *Client) History(ctx context.Context, limit int) ([]*store.Entry, error) {
	resp, err := c.api.History(ctx, api.HistoryRequest(limit))
	if err != nil {
		return nil, err
	}
	return api.DecodeHistory(resp)
}

// Healthy asks the standard health service about the interpreter
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return false, err
	}
	return resp.Status == healthpb.HealthCheckResponse_SERVING, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
