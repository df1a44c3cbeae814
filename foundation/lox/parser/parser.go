// File: parser.go
// Title: Lox Recursive Descent Parser
// Description: Builds a single expression tree from a token stream using
//              one function per precedence level. Syntax errors are
//              collected as diagnostics; after each error the parser
//              resynchronizes at the next statement boundary and keeps
//              going so one call can report several independent problems.
//              Nesting depth is bounded explicitly.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"errors"
	"fmt"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/ast"
	"github.com/themifi/relox/foundation/lox/diag"
	"github.com/themifi/relox/foundation/lox/token"
	"github.com/themifi/relox/foundation/lox/value"
)

// DefaultMaxDepth is the nesting bound used when Options.MaxDepth is zero
const DefaultMaxDepth = 256

const (
	msgExpectExpression = "Expect expression."
	msgExpectRightParen = "Expect ')' after expression."
	msgExpectEnd        = "Expect end of expression."
	msgDepthFormat      = "Expression nesting exceeds maximum depth of %d."
)

// errSyntax unwinds the descent once the diagnostic has been recorded
var errSyntax = errors.New("syntax error")

// Options configures parser behavior
type Options struct {
	Logger   *mdwlog.Logger
	MaxDepth int
}

// Parser turns tokens into an expression tree. It keeps no per-call state
// and may be shared between goroutines.
type Parser struct {
	logger   *mdwlog.Logger
	maxDepth int
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{
		logger:   opts.Logger.WithField("component", "lox-parser"),
		maxDepth: opts.MaxDepth,
	}
}

var quiet = &Parser{logger: mdwlog.Discard(), maxDepth: DefaultMaxDepth}

// Parse parses tokens with the default depth bound and without logging
func Parse(tokens []token.Token) (ast.Expr, diag.List) {
	return quiet.Parse(tokens)
}

// MaxDepth returns the configured nesting bound
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// Parse parses tokens into one expression. The tree is returned only when
// no diagnostics were reported. A single trailing ';' is accepted.
func (p *Parser) Parse(tokens []token.Token) (ast.Expr, diag.List) {
	st := &state{tokens: withEOF(tokens), maxDepth: p.maxDepth}

	var roots []ast.Expr
	for {
		if expr := st.segment(); expr != nil {
			roots = append(roots, expr)
		}
		if st.check(token.EOF) {
			break
		}
	}

	if p.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		p.logger.Debug("parse finished", mdwlog.Fields{
			"tokens":      len(tokens),
			"diagnostics": len(st.diags),
		})
	}

	if st.diags.HasErrors() || len(roots) != 1 {
		return nil, st.diags
	}
	return roots[0], nil
}

func withEOF(tokens []token.Token) []token.Token {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == token.EOF {
		return tokens
	}
	line := 1
	if n := len(tokens); n > 0 {
		line = tokens[n-1].Line
	}
	out := make([]token.Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, token.New(token.EOF, "", line))
}

// state is the cursor of one Parse call
type state struct {
	tokens   []token.Token
	current  int
	depth    int
	maxDepth int
	diags    diag.List
}

// segment parses expression [";"] up to EOF. On error it resynchronizes
// and returns nil.
func (st *state) segment() ast.Expr {
	expr, err := st.expression(st.peek())
	if err == nil {
		st.match(token.Semicolon)
		if !st.check(token.EOF) {
			err = st.errorAt(st.peek(), msgExpectEnd)
		}
	}
	if err != nil {
		st.synchronize()
		return nil
	}
	return expr
}

// expression → equality
func (st *state) expression(anchor token.Token) (ast.Expr, error) {
	if err := st.enter(anchor); err != nil {
		return nil, err
	}
	defer st.leave()
	return st.equality()
}

// equality → comparison (("!=" | "==") comparison)*
func (st *state) equality() (ast.Expr, error) {
	return st.binary(st.comparison, token.BangEqual, token.EqualEqual)
}

// comparison → term ((">" | ">=" | "<" | "<=") term)*
func (st *state) comparison() (ast.Expr, error) {
	return st.binary(st.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

// term → factor (("-" | "+") factor)*
func (st *state) term() (ast.Expr, error) {
	return st.binary(st.factor, token.Minus, token.Plus)
}

// factor → unary (("/" | "*") unary)*
func (st *state) factor() (ast.Expr, error) {
	return st.binary(st.unary, token.Slash, token.Star)
}

// binary folds a left-associative chain of operand (op operand)*
func (st *state) binary(operand func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for st.match(ops...) {
		operator := st.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

// unary → ("!" | "-") unary | primary
func (st *state) unary() (ast.Expr, error) {
	if !st.match(token.Bang, token.Minus) {
		return st.primary()
	}
	operator := st.previous()
	if err := st.enter(operator); err != nil {
		return nil, err
	}
	defer st.leave()

	operand, err := st.unary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(operator, operand), nil
}

// primary → NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
func (st *state) primary() (ast.Expr, error) {
	switch {
	case st.match(token.False):
		return ast.NewLiteral(value.Bool(false)), nil
	case st.match(token.True):
		return ast.NewLiteral(value.Bool(true)), nil
	case st.match(token.Nil):
		return ast.NewLiteral(value.Nil{}), nil
	case st.match(token.Number, token.String):
		v, err := value.FromLiteral(st.previous().Literal)
		if err != nil {
			return nil, st.errorAt(st.previous(), msgExpectExpression)
		}
		return ast.NewLiteral(v), nil
	case st.match(token.LeftParen):
		inner, err := st.expression(st.previous())
		if err != nil {
			return nil, err
		}
		if _, err := st.consume(token.RightParen, msgExpectRightParen); err != nil {
			return nil, err
		}
		return ast.NewGrouping(inner), nil
	}
	return nil, st.errorAt(st.peek(), msgExpectExpression)
}

// enter opens one nesting level; anchor is the token that opens it
func (st *state) enter(anchor token.Token) error {
	if st.depth >= st.maxDepth {
		d := diag.AtToken(anchor, fmt.Sprintf(msgDepthFormat, st.maxDepth))
		d.Kind = diag.KindDepth
		st.diags.Add(d)
		return errSyntax
	}
	st.depth++
	return nil
}

func (st *state) leave() {
	st.depth--
}

// synchronize discards tokens until just after a ';' or just before a token
// that starts a new top-level construct
func (st *state) synchronize() {
	st.advance()
	for !st.check(token.EOF) {
		if st.previous().Kind == token.Semicolon {
			return
		}
		if st.peek().Kind.StartsDeclaration() {
			return
		}
		st.advance()
	}
}

func (st *state) errorAt(tok token.Token, message string) error {
	st.diags.Add(diag.AtToken(tok, message))
	return errSyntax
}

func (st *state) consume(kind token.Kind, message string) (token.Token, error) {
	if st.check(kind) {
		return st.advance(), nil
	}
	return token.Token{}, st.errorAt(st.peek(), message)
}

func (st *state) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if st.check(k) {
			st.advance()
			return true
		}
	}
	return false
}

func (st *state) check(kind token.Kind) bool {
	return st.peek().Kind == kind
}

func (st *state) advance() token.Token {
	if !st.check(token.EOF) {
		st.current++
	}
	return st.previous()
}

func (st *state) peek() token.Token {
	return st.tokens[st.current]
}

func (st *state) previous() token.Token {
	if st.current == 0 {
		return st.tokens[0]
	}
	return st.tokens[st.current-1]
}
