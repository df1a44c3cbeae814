// File: diagnostic.go
// Title: Lexical and Syntax Diagnostics
// Description: Diagnostic records accumulated by the scanner and parser,
//              their canonical rendering and conversion into structured
//              errors for hosts.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial diagnostics

package diag

import (
	"fmt"
	"strings"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/foundation/lox/token"
)

// Kind classifies the stage that produced a diagnostic
type Kind uint8

const (
	KindLexical Kind = iota
	KindSyntax
	KindDepth
)

// Code returns the error code used when the diagnostic is surfaced as an error
func (k Kind) Code() mdwerror.Code {
	switch k {
	case KindLexical:
		return mdwerror.CodeLoxLexical
	case KindDepth:
		return mdwerror.CodeLoxDepth
	default:
		return mdwerror.CodeLoxSyntax
	}
}

// Diagnostic is a single reported problem. Where is empty for lexical
// diagnostics, " at end" at end of input and " at '<lexeme>'" otherwise.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

// Lexical creates a diagnostic without a location suffix
func Lexical(line int, message string) Diagnostic {
	return Diagnostic{Kind: KindLexical, Line: line, Message: message}
}

// AtToken creates a syntax diagnostic anchored at tok
func AtToken(tok token.Token, message string) Diagnostic {
	return Diagnostic{Kind: KindSyntax, Line: tok.Line, Where: WhereOf(tok), Message: message}
}

// WhereOf returns the location suffix for a diagnostic anchored at tok
func WhereOf(tok token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}
	return " at '" + tok.Lexeme + "'"
}

// String renders the diagnostic as "[line N] Error<where>: <message>"
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// List is an ordered accumulation of diagnostics
type List []Diagnostic

// Add appends d
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether any diagnostic was recorded
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Strings renders every diagnostic
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.String()
	}
	return out
}

// String renders the list one diagnostic per line
func (l List) String() string {
	return strings.Join(l.Strings(), "\n")
}

// Err converts the list into a structured error, or nil when empty. The
// code follows the first diagnostic.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	first := l[0]
	return mdwerror.New(l.String()).
		WithCode(first.Kind.Code()).
		WithOperation("lox.diagnostics").
		WithDetail("line", first.Line).
		WithDetail("count", len(l))
}
