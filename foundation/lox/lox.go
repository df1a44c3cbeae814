// File: lox.go
// Title: Lox Front End Engine
// Description: Wires scanner, parser and evaluator into one engine and
//              provides the combined Run entry point used by hosts. Run
//              reports lexical and syntax diagnostics together and only
//              evaluates a tree when both lists are empty.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine implementation

package lox

import (
	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/ast"
	"github.com/themifi/relox/foundation/lox/diag"
	"github.com/themifi/relox/foundation/lox/evaluator"
	"github.com/themifi/relox/foundation/lox/parser"
	"github.com/themifi/relox/foundation/lox/scanner"
	"github.com/themifi/relox/foundation/lox/token"
	"github.com/themifi/relox/foundation/lox/value"
)

// Options configures the engine
type Options struct {
	Logger   *mdwlog.Logger
	MaxDepth int
}

// Engine runs the three front end stages. It is safe for concurrent use.
type Engine struct {
	scanner   *scanner.Scanner
	parser    *parser.Parser
	evaluator *evaluator.Evaluator
	logger    *mdwlog.Logger
}

// New creates an engine
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = parser.DefaultMaxDepth
	}

	logger := opts.Logger.WithField("component", "lox-engine")
	engine := &Engine{
		scanner:   scanner.New(scanner.Options{Logger: opts.Logger}),
		parser:    parser.New(parser.Options{Logger: opts.Logger, MaxDepth: opts.MaxDepth}),
		evaluator: evaluator.New(evaluator.Options{Logger: opts.Logger}),
		logger:    logger,
	}

	logger.Debug("Lox engine initialized", mdwlog.Fields{"maxDepth": opts.MaxDepth})
	return engine
}

// MaxDepth returns the parser nesting bound
func (e *Engine) MaxDepth() int {
	return e.parser.MaxDepth()
}

// Scan tokenizes source
func (e *Engine) Scan(source string) ([]token.Token, diag.List) {
	return e.scanner.Scan(source)
}

// Parse builds an expression tree from tokens
func (e *Engine) Parse(tokens []token.Token) (ast.Expr, diag.List) {
	return e.parser.Parse(tokens)
}

// Evaluate computes the value of expr
func (e *Engine) Evaluate(expr ast.Expr) (value.Value, *evaluator.RuntimeError) {
	return e.evaluator.Evaluate(expr)
}

// Run scans, parses and evaluates source
func (e *Engine) Run(source string) Result {
	timer := e.logger.StartTimer("lox.run").WithField("bytes", len(source))

	var result Result
	var lexical diag.List
	result.Tokens, lexical = e.scanner.Scan(source)

	expr, syntax := e.parser.Parse(result.Tokens)
	result.Diagnostics = append(lexical, syntax...)

	if !result.Diagnostics.HasErrors() {
		result.Expr = expr
		result.Value, result.Runtime = e.evaluator.Evaluate(expr)
	}

	timer.WithField("status", result.Status().String()).Stop()
	return result
}
