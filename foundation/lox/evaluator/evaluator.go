// File: evaluator.go
// Title: Lox Tree-Walking Evaluator
// Description: Computes the value of an expression tree. Operators follow
//              dynamic typing rules for numbers, strings, booleans and nil;
//              the first runtime error aborts evaluation and carries the
//              line of the offending operator.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial evaluator implementation

package evaluator

import (
	"fmt"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/ast"
	"github.com/themifi/relox/foundation/lox/token"
	"github.com/themifi/relox/foundation/lox/value"
)

const (
	msgOperandNumber  = "Operand must be a number."
	msgOperandsNumber = "Operands must be numbers."
	msgOperandsPlus   = "Operands must be two numbers or two strings."
)

// RuntimeError is a failed evaluation anchored at an operator token
type RuntimeError struct {
	Token   token.Token
	Message string
}

// Line returns the source line of the offending operator
func (e *RuntimeError) Line() int {
	return e.Token.Line
}

// Error renders the error as "<message>\n[line N]"
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// AsError converts the runtime error into a structured error
func (e *RuntimeError) AsError() *mdwerror.Error {
	return mdwerror.New(e.Message).
		WithCode(mdwerror.CodeLoxRuntime).
		WithOperation("lox.evaluate").
		WithDetail("line", e.Token.Line).
		WithDetail("operator", e.Token.Lexeme)
}

// Options configures an Evaluator
type Options struct {
	Logger *mdwlog.Logger
}

// Evaluator walks expression trees. It holds no per-call state and may be
// shared between goroutines.
type Evaluator struct {
	logger *mdwlog.Logger
}

// New creates an evaluator
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Evaluator{logger: opts.Logger.WithField("component", "lox-evaluator")}
}

var quiet = &Evaluator{logger: mdwlog.Discard()}

// Evaluate evaluates expr without logging
func Evaluate(expr ast.Expr) (value.Value, *RuntimeError) {
	return quiet.Evaluate(expr)
}

// Evaluate computes the value of expr. Exactly one of the results is non-nil.
func (ev *Evaluator) Evaluate(expr ast.Expr) (value.Value, *RuntimeError) {
	v, rerr := eval(expr)
	if rerr != nil {
		ev.logger.Debug("evaluation failed", mdwlog.Fields{
			"line":    rerr.Line(),
			"message": rerr.Message,
		})
		return nil, rerr
	}
	return v, nil
}

func eval(expr ast.Expr) (value.Value, *RuntimeError) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Grouping:
		return eval(e.Inner)
	case *ast.Unary:
		return evalUnary(e)
	case *ast.Binary:
		return evalBinary(e)
	default:
		panic(fmt.Sprintf("evaluator: unknown expression %T", expr))
	}
}

func evalUnary(e *ast.Unary) (value.Value, *RuntimeError) {
	operand, rerr := eval(e.Operand)
	if rerr != nil {
		return nil, rerr
	}

	switch e.Operator.Kind {
	case token.Minus:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, &RuntimeError{Token: e.Operator, Message: msgOperandNumber}
		}
		return -n, nil
	case token.Bang:
		return value.Bool(!value.Truthy(operand)), nil
	default:
		panic(fmt.Sprintf("evaluator: unknown unary operator %v", e.Operator.Kind))
	}
}

func evalBinary(e *ast.Binary) (value.Value, *RuntimeError) {
	left, rerr := eval(e.Left)
	if rerr != nil {
		return nil, rerr
	}
	right, rerr := eval(e.Right)
	if rerr != nil {
		return nil, rerr
	}

	op := e.Operator
	switch op.Kind {
	case token.Plus:
		switch l := left.(type) {
		case value.Number:
			if r, ok := right.(value.Number); ok {
				return l + r, nil
			}
		case value.String:
			if r, ok := right.(value.String); ok {
				return l + r, nil
			}
		}
		return nil, &RuntimeError{Token: op, Message: msgOperandsPlus}
	case token.EqualEqual:
		return value.Bool(value.Equal(left, right)), nil
	case token.BangEqual:
		return value.Bool(!value.Equal(left, right)), nil
	}

	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		return nil, &RuntimeError{Token: op, Message: msgOperandsNumber}
	}

	switch op.Kind {
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		return l / r, nil
	case token.Greater:
		return value.Bool(l > r), nil
	case token.GreaterEqual:
		return value.Bool(l >= r), nil
	case token.Less:
		return value.Bool(l < r), nil
	case token.LessEqual:
		return value.Bool(l <= r), nil
	default:
		panic(fmt.Sprintf("evaluator: unknown binary operator %v", op.Kind))
	}
}
