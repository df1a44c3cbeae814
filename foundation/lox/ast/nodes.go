// File: nodes.go
// Title: Lox Expression Tree
// Description: The four expression node variants produced by the parser.
//              Each node owns its children exclusively and is never mutated
//              after construction.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial expression nodes

package ast

import (
	"github.com/themifi/relox/foundation/lox/token"
	"github.com/themifi/relox/foundation/lox/value"
)

// Expr is an expression node. The variants are Literal, Grouping, Unary
// and Binary; no other implementations exist.
type Expr interface {
	Accept(visitor Visitor) interface{}
	String() string
	exprNode()
}

// Literal is a constant value
type Literal struct {
	Value value.Value
}

// Grouping is a parenthesized expression
type Grouping struct {
	Inner Expr
}

// Unary is a prefix operator applied to one operand
type Unary struct {
	Operator token.Token
	Operand  Expr
}

// Binary is an infix operator applied to two operands
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}

func (e *Literal) Accept(visitor Visitor) interface{}  { return visitor.VisitLiteral(e) }
func (e *Grouping) Accept(visitor Visitor) interface{} { return visitor.VisitGrouping(e) }
func (e *Unary) Accept(visitor Visitor) interface{}    { return visitor.VisitUnary(e) }
func (e *Binary) Accept(visitor Visitor) interface{}   { return visitor.VisitBinary(e) }

func (e *Literal) String() string  { return Print(e) }
func (e *Grouping) String() string { return Print(e) }
func (e *Unary) String() string    { return Print(e) }
func (e *Binary) String() string   { return Print(e) }

// NewLiteral creates a literal node
func NewLiteral(v value.Value) *Literal {
	return &Literal{Value: v}
}

// NewGrouping creates a grouping node
func NewGrouping(inner Expr) *Grouping {
	return &Grouping{Inner: inner}
}

// NewUnary creates a unary node
func NewUnary(operator token.Token, operand Expr) *Unary {
	return &Unary{Operator: operator, Operand: operand}
}

// NewBinary creates a binary node
func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{Left: left, Operator: operator, Right: right}
}
