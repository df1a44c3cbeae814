// File: token.go
// Title: Lox Token Model
// Description: Token kinds, the immutable Token record produced by the
//              scanner and the reserved word table.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial token model

package token

import (
	"fmt"
	"strconv"

	loxvalue "github.com/themifi/relox/foundation/lox/value"
)

// Kind identifies the lexical class of a token
type Kind uint8

const (
	// Single-character tokens
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var kindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

// String returns the upper-case name of the kind, e.g. "BANG_EQUAL"
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}

// StartsDeclaration reports whether k begins a top-level construct. The
// parser resynchronizes in front of such tokens after a syntax error.
func (k Kind) StartsDeclaration() bool {
	switch k {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	}
	return false
}

var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Lookup returns the keyword kind for ident, or Identifier
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// Token is a lexical unit. Literal is a float64 for Number tokens, a string
// for String tokens and nil otherwise. Line is where the token ends, so a
// string spanning lines carries its closing line; the "Unterminated string."
// diagnostic instead reports the line where the string opened.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal interface{}
	Line    int
}

// New creates a token without a literal payload
func New(kind Kind, lexeme string, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line}
}

// NewNumber creates a Number token
func NewNumber(lexeme string, value float64, line int) Token {
	return Token{Kind: Number, Lexeme: lexeme, Literal: value, Line: line}
}

// NewString creates a String token; lexeme includes the quotes
func NewString(lexeme, value string, line int) Token {
	return Token{Kind: String, Lexeme: lexeme, Literal: value, Line: line}
}

// String renders the token as "<KIND> <literal-or-lexeme>", e.g.
// `NUMBER 2.3` or `STRING "hi"`.
func (t Token) String() string {
	switch v := t.Literal.(type) {
	case float64:
		return t.Kind.String() + " " + loxvalue.FormatNumber(v)
	case string:
		return t.Kind.String() + " " + strconv.Quote(v)
	default:
		return t.Kind.String() + " " + t.Lexeme
	}
}
