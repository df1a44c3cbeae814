// File: scanner_test.go
// Title: Lox Scanner Unit Tests
// Description: Tests for tokenization of operators, literals, keywords,
//              comments, line tracking and lexical error recovery.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package scanner

import (
	"bytes"
	"strings"
	"testing"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScan_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Kind
	}{
		{
			name:     "Empty source",
			input:    "",
			expected: []token.Kind{token.EOF},
		},
		{
			name:  "Single character tokens",
			input: "(){},.-+;*/",
			expected: []token.Kind{
				token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
				token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
				token.Star, token.Slash, token.EOF,
			},
		},
		{
			name:  "Maximal munch",
			input: "! != = == < <= > >=",
			expected: []token.Kind{
				token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
				token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.EOF,
			},
		},
		{
			name:     "Adjacent operators",
			input:    "!==",
			expected: []token.Kind{token.BangEqual, token.Equal, token.EOF},
		},
		{
			name:     "Keywords and identifiers",
			input:    "and or nil orchid _x1",
			expected: []token.Kind{token.And, token.Or, token.Nil, token.Identifier, token.Identifier, token.EOF},
		},
		{
			name:     "Comment runs to end of line",
			input:    "1 // 2 + 3\n4",
			expected: []token.Kind{token.Number, token.Number, token.EOF},
		},
		{
			name:     "Trailing dot is separate",
			input:    "123.",
			expected: []token.Kind{token.Number, token.Dot, token.EOF},
		},
		{
			name:     "Leading dot is separate",
			input:    ".5",
			expected: []token.Kind{token.Dot, token.Number, token.EOF},
		},
		{
			name:     "Expression",
			input:    "(2 + 3) * 4",
			expected: []token.Kind{token.LeftParen, token.Number, token.Plus, token.Number, token.RightParen, token.Star, token.Number, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags := Scan(tt.input)
			if diags.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if got := kinds(tokens); !equalKinds(got, tt.expected) {
				t.Errorf("kinds = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScan_Literals(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lexeme  string
		literal interface{}
	}{
		{"integer", "42", "42", 42.0},
		{"fraction", "2.30", "2.30", 2.3},
		{"string", `"s"`, `"s"`, "s"},
		{"empty string", `""`, `""`, ""},
		{"utf8 string", `"grüße"`, `"grüße"`, "grüße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags := Scan(tt.input)
			if diags.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if len(tokens) != 2 {
				t.Fatalf("got %d tokens, want 2", len(tokens))
			}
			if tokens[0].Lexeme != tt.lexeme {
				t.Errorf("Lexeme = %q, want %q", tokens[0].Lexeme, tt.lexeme)
			}
			if tokens[0].Literal != tt.literal {
				t.Errorf("Literal = %#v, want %#v", tokens[0].Literal, tt.literal)
			}
		})
	}
}

func TestScan_HugeNumberIsNotAnError(t *testing.T) {
	tokens, diags := Scan(strings.Repeat("9", 400))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.Number {
		t.Errorf("Kind = %v, want NUMBER", tokens[0].Kind)
	}
}

func TestScan_LineTracking(t *testing.T) {
	tokens, _ := Scan("1\n\"a\nb\"\n// note\n+")

	want := []struct {
		kind token.Kind
		line int
	}{
		{token.Number, 1},
		{token.String, 3},
		{token.Plus, 5},
		{token.EOF, 5},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Line != w.line {
			t.Errorf("token %d = %v line %d, want %v line %d", i, tokens[i].Kind, tokens[i].Line, w.kind, w.line)
		}
	}
	if tokens[1].Literal != "a\nb" {
		t.Errorf("multi-line literal = %q", tokens[1].Literal)
	}
}

func TestScan_UnexpectedCharacterContinues(t *testing.T) {
	tokens, diags := Scan("1 @ 2\n#")

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	if diags[0].String() != "[line 1] Error: Unexpected character." {
		t.Errorf("diagnostic[0] = %q", diags[0].String())
	}
	if diags[1].Line != 2 {
		t.Errorf("diagnostic[1] line = %d, want 2", diags[1].Line)
	}
	if got := kinds(tokens); !equalKinds(got, []token.Kind{token.Number, token.Number, token.EOF}) {
		t.Errorf("kinds = %v", got)
	}
}

func TestScan_MultiByteUnexpectedCharacter(t *testing.T) {
	_, diags := Scan("é")
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics, want 1 per character", len(diags))
	}
}

func TestScan_UnterminatedString(t *testing.T) {
	tokens, diags := Scan("1 + \"abc\ndef")

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].String() != "[line 1] Error: Unterminated string." {
		t.Errorf("diagnostic = %q", diags[0].String())
	}
	last := tokens[len(tokens)-1]
	if last.Kind != token.EOF || last.Line != 2 {
		t.Errorf("last token = %v line %d, want EOF line 2", last.Kind, last.Line)
	}
	if got := kinds(tokens); !equalKinds(got, []token.Kind{token.Number, token.Plus, token.EOF}) {
		t.Errorf("kinds = %v", got)
	}
}

func TestScanner_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText, Output: &buf})

	New(Options{Logger: logger}).Scan("1 + 2")

	out := buf.String()
	if !strings.Contains(out, "scan finished") || !strings.Contains(out, "component=lox-scanner") {
		t.Errorf("log output = %q", out)
	}

	buf.Reset()
	New(Options{Logger: logger.WithLevel(mdwlog.LevelInfo)}).Scan("1 + 2")
	if buf.Len() != 0 {
		t.Errorf("scanner logged above debug: %q", buf.String())
	}
}
