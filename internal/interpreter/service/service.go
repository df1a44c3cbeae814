package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/foundation/lox"
	"github.com/themifi/relox/foundation/lox/ast"
	"github.com/themifi/relox/foundation/lox/diag"
	"github.com/themifi/relox/internal/interpreter/store"
	"github.com/themifi/relox/pkg/core/cache"
	coreGrpc "github.com/themifi/relox/pkg/core/grpc"
	"github.com/themifi/relox/pkg/core/logging"
)

// DefaultMaxSourceBytes bounds a single request when the config sets none
const DefaultMaxSourceBytes = 1 << 20

// Evaluation is the outcome of Evaluate
type Evaluation struct {
	Status      lox.Status
	Output      string
	Kind        string
	Diagnostics []string
	Line        int
	DurationMS  float64
	Cached      bool
	RequestID   string
}

// TokenView is the display form of one token
type TokenView struct {
	Kind    string
	Lexeme  string
	Display string
	Line    int
}

// Tokenization is the outcome of Tokenize
type Tokenization struct {
	Tokens      []TokenView
	Diagnostics []string
}

// ParseResult is the outcome of Parse. Tree is empty when diagnostics were
// reported.
type ParseResult struct {
	Tree        string
	Depth       int
	Diagnostics []string
}

// Stats summarizes the service since start
type Stats struct {
	Evaluations int64
	CacheHits   int64
	CacheMisses int64
	CachedItems int
	ByStatus    map[string]int64
	Uptime      time.Duration
}

// Config holds service configuration
type Config struct {
	MaxDepth       int
	MaxSourceBytes int64
	Cache          *cache.Cache
	Journal        store.Journal
	Logger         *logging.Logger
}

// Service runs the Lox front end for remote and local callers
type Service struct {
	engine  *lox.Engine
	config  Config
	cache   *cache.Cache
	journal store.Journal
	logger  *logging.Logger
	startAt time.Time

	evaluations atomic.Int64
	mu          sync.Mutex
	byStatus    map[string]int64
}

// NewService creates a new interpreter service
func NewService(cfg Config) (*Service, error) {
	if cfg.MaxDepth < 0 || cfg.MaxSourceBytes < 0 {
		return nil, mdwerror.New("limits must not be negative").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("service.NewService").
			WithDetail("max_depth", cfg.MaxDepth).
			WithDetail("max_source_bytes", cfg.MaxSourceBytes)
	}
	if cfg.MaxSourceBytes == 0 {
		cfg.MaxSourceBytes = DefaultMaxSourceBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("interpreter")
	}

	return &Service{
		engine:   lox.New(lox.Options{Logger: logger.Logger, MaxDepth: cfg.MaxDepth}),
		config:   cfg,
		cache:    cfg.Cache,
		journal:  cfg.Journal,
		logger:   logger,
		startAt:  time.Now(),
		byStatus: make(map[string]int64),
	}, nil
}

// Engine returns the underlying engine
func (s *Service) Engine() *lox.Engine {
	return s.engine
}

// Evaluate runs source through all three stages. Lox errors are reported in
// the result; the returned error is reserved for rejected requests.
func (s *Service) Evaluate(ctx context.Context, source string) (*Evaluation, error) {
	if err := s.admit(ctx, source, "service.Evaluate"); err != nil {
		return nil, err
	}
	requestID := coreGrpc.GetRequestID(ctx)
	key := cache.Key("evaluate", strconv.Itoa(s.engine.MaxDepth()), source)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			ev := *cached.(*Evaluation)
			ev.Cached = true
			ev.RequestID = requestID
			s.count(ev.Status)
			s.logger.Debug("Evaluation served from cache", "request_id", requestID, "status", ev.Status.String())
			s.record(ctx, source, &ev)
			return &ev, nil
		}
	}

	start := time.Now()
	result := s.engine.Run(source)
	ev := &Evaluation{
		Status:     result.Status(),
		Output:     result.Output(),
		DurationMS: float64(time.Since(start).Nanoseconds()) / 1e6,
		RequestID:  requestID,
	}
	switch ev.Status {
	case lox.StatusOK:
		ev.Kind = result.Value.Kind().String()
	case lox.StatusSyntaxError:
		ev.Diagnostics = result.Diagnostics.Strings()
		ev.Line = result.Diagnostics[0].Line
	case lox.StatusRuntimeError:
		ev.Line = result.Runtime.Line()
	}
	s.count(ev.Status)

	if err := result.Err(); err != nil {
		s.logger.Debug("Evaluation failed", "request_id", requestID, "status", ev.Status.String(), "error", err)
	}

	if s.cache != nil {
		stored := *ev
		stored.RequestID = ""
		s.cache.Set(key, &stored)
	}
	s.record(ctx, source, ev)

	return ev, nil
}

// Tokenize scans source
func (s *Service) Tokenize(ctx context.Context, source string) (*Tokenization, error) {
	if err := s.admit(ctx, source, "service.Tokenize"); err != nil {
		return nil, err
	}

	tokens, diagnostics := s.engine.Scan(source)
	out := &Tokenization{
		Tokens:      make([]TokenView, len(tokens)),
		Diagnostics: diagnostics.Strings(),
	}
	for i, tok := range tokens {
		out.Tokens[i] = TokenView{
			Kind:    tok.Kind.String(),
			Lexeme:  tok.Lexeme,
			Display: tok.String(),
			Line:    tok.Line,
		}
	}
	return out, nil
}

// Parse scans and parses source without evaluating it
func (s *Service) Parse(ctx context.Context, source string) (*ParseResult, error) {
	if err := s.admit(ctx, source, "service.Parse"); err != nil {
		return nil, err
	}

	tokens, lexical := s.engine.Scan(source)
	expr, syntax := s.engine.Parse(tokens)
	diagnostics := append(diag.List{}, lexical...)
	diagnostics = append(diagnostics, syntax...)

	out := &ParseResult{Diagnostics: diagnostics.Strings()}
	if !diagnostics.HasErrors() && expr != nil {
		out.Tree = ast.Print(expr)
		out.Depth = ast.Depth(expr)
	}
	return out, nil
}

// History returns the most recent journaled evaluations
func (s *Service) History(ctx context.Context, limit int) ([]*store.Entry, error) {
	if s.journal == nil {
		return nil, mdwerror.New("evaluation journal is disabled").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("service.History")
	}
	return s.journal.Recent(ctx, limit)
}

// Stats returns counters since start
func (s *Service) Stats() Stats {
	s.mu.Lock()
	byStatus := make(map[string]int64, len(s.byStatus))
	for k, v := range s.byStatus {
		byStatus[k] = v
	}
	s.mu.Unlock()

	st := Stats{
		Evaluations: s.evaluations.Load(),
		ByStatus:    byStatus,
		Uptime:      time.Since(s.startAt),
	}
	if s.cache != nil {
		st.CacheHits, st.CacheMisses, _ = s.cache.Stats()
		st.CachedItems = s.cache.Size()
	}
	return st
}

// Ping evaluates a fixed expression. The journal has its own health check.
func (s *Service) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result := s.engine.Run("1 + 2 == 3")
	if result.Status() != lox.StatusOK || result.Output() != "true" {
		return mdwerror.New("smoke evaluation returned " + result.Output()).
			WithCode(mdwerror.CodeInternal).
			WithOperation("service.Ping")
	}
	return nil
}

// admit rejects cancelled contexts and oversized sources
func (s *Service) admit(ctx context.Context, source, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if int64(len(source)) > s.config.MaxSourceBytes {
		return mdwerror.Newf("source is %d bytes, limit is %d", len(source), s.config.MaxSourceBytes).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(operation).
			WithDetail("bytes", len(source)).
			WithDetail("limit", s.config.MaxSourceBytes)
	}
	return nil
}

func (s *Service) count(status lox.Status) {
	s.evaluations.Add(1)
	s.mu.Lock()
	s.byStatus[status.String()]++
	s.mu.Unlock()
}

func (s *Service) record(ctx context.Context, source string, ev *Evaluation) {
	if s.journal == nil {
		return
	}
	entry := &store.Entry{
		Source:     source,
		Status:     ev.Status.String(),
		Output:     ev.Output,
		DurationMS: ev.DurationMS,
		RequestID:  ev.RequestID,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to journal evaluation", "request_id", ev.RequestID, "error", err)
	}
}
