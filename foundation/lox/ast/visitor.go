// File: visitor.go
// Title: Expression Tree Visitors
// Description: Visitor interface for walking expression trees, the
//              parenthesized prefix printer and a depth measurement.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial visitors

package ast

import (
	"strings"

	"github.com/themifi/relox/foundation/lox/value"
)

// Visitor interface for traversing expression nodes
type Visitor interface {
	VisitLiteral(expr *Literal) interface{}
	VisitGrouping(expr *Grouping) interface{}
	VisitUnary(expr *Unary) interface{}
	VisitBinary(expr *Binary) interface{}
}

// Printer renders a tree in parenthesized prefix form, e.g.
// (* (- 123) (group 45.67)). String literals are quoted.
type Printer struct{}

// Print renders expr with a Printer
func Print(expr Expr) string {
	return expr.Accept(Printer{}).(string)
}

func (p Printer) VisitLiteral(expr *Literal) interface{} {
	return value.Quote(expr.Value)
}

func (p Printer) VisitGrouping(expr *Grouping) interface{} {
	return p.parenthesize("group", expr.Inner)
}

func (p Printer) VisitUnary(expr *Unary) interface{} {
	return p.parenthesize(expr.Operator.Lexeme, expr.Operand)
}

func (p Printer) VisitBinary(expr *Binary) interface{} {
	return p.parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
}

func (p Printer) parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		sb.WriteString(e.Accept(p).(string))
	}
	sb.WriteByte(')')
	return sb.String()
}

// depthVisitor returns the height of a tree as an int
type depthVisitor struct{}

// Depth returns the number of nodes on the longest root-to-leaf path
func Depth(expr Expr) int {
	return expr.Accept(depthVisitor{}).(int)
}

func (d depthVisitor) VisitLiteral(*Literal) interface{} { return 1 }

func (d depthVisitor) VisitGrouping(expr *Grouping) interface{} {
	return 1 + expr.Inner.Accept(d).(int)
}

func (d depthVisitor) VisitUnary(expr *Unary) interface{} {
	return 1 + expr.Operand.Accept(d).(int)
}

func (d depthVisitor) VisitBinary(expr *Binary) interface{} {
	l := expr.Left.Accept(d).(int)
	r := expr.Right.Accept(d).(int)
	if r > l {
		l = r
	}
	return 1 + l
}
