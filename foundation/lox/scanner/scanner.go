// File: scanner.go
// Title: Lox Lexical Scanner
// Description: Converts source text into an ordered token stream. Scanning
//              uses maximal munch for two-character operators, reports
//              lexical diagnostics without stopping and always terminates
//              the stream with exactly one EOF token.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial scanner implementation

package scanner

import (
	"strconv"
	"unicode/utf8"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox/diag"
	"github.com/themifi/relox/foundation/lox/token"
)

const (
	msgUnexpectedCharacter = "Unexpected character."
	msgUnterminatedString  = "Unterminated string."
)

// Options configures a Scanner
type Options struct {
	Logger *mdwlog.Logger
}

// Scanner turns source text into tokens. A Scanner holds no per-call state
// and may be shared between goroutines.
type Scanner struct {
	logger *mdwlog.Logger
}

// New creates a scanner
func New(opts Options) *Scanner {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Scanner{logger: opts.Logger.WithField("component", "lox-scanner")}
}

var quiet = &Scanner{logger: mdwlog.Discard()}

// Scan tokenizes source without logging
func Scan(source string) ([]token.Token, diag.List) {
	return quiet.Scan(source)
}

// Scan tokenizes source. The returned slice always ends with a single EOF
// token carrying the final line number.
func (s *Scanner) Scan(source string) ([]token.Token, diag.List) {
	lx := &lexer{source: source, line: 1}
	lx.run()

	if s.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		s.logger.Debug("scan finished", mdwlog.Fields{
			"bytes":       len(source),
			"tokens":      len(lx.tokens),
			"diagnostics": len(lx.diags),
		})
	}
	return lx.tokens, lx.diags
}

// lexer holds the cursor state of one Scan call
type lexer struct {
	source  string
	start   int
	current int
	line    int

	tokens []token.Token
	diags  diag.List
}

func (lx *lexer) run() {
	for !lx.atEnd() {
		lx.start = lx.current
		lx.scanToken()
	}
	lx.tokens = append(lx.tokens, token.New(token.EOF, "", lx.line))
}

func (lx *lexer) scanToken() {
	r := lx.advance()
	switch r {
	case '(':
		lx.add(token.LeftParen)
	case ')':
		lx.add(token.RightParen)
	case '{':
		lx.add(token.LeftBrace)
	case '}':
		lx.add(token.RightBrace)
	case ',':
		lx.add(token.Comma)
	case '.':
		lx.add(token.Dot)
	case '-':
		lx.add(token.Minus)
	case '+':
		lx.add(token.Plus)
	case ';':
		lx.add(token.Semicolon)
	case '*':
		lx.add(token.Star)
	case '!':
		lx.addEither('=', token.BangEqual, token.Bang)
	case '=':
		lx.addEither('=', token.EqualEqual, token.Equal)
	case '<':
		lx.addEither('=', token.LessEqual, token.Less)
	case '>':
		lx.addEither('=', token.GreaterEqual, token.Greater)
	case '/':
		if lx.match('/') {
			for lx.peek() != '\n' && !lx.atEnd() {
				lx.advance()
			}
		} else {
			lx.add(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		lx.line++
	case '"':
		lx.scanString()
	default:
		switch {
		case isDigit(r):
			lx.scanNumber()
		case isAlpha(r):
			lx.scanIdentifier()
		default:
			lx.diags.Add(diag.Lexical(lx.line, msgUnexpectedCharacter))
		}
	}
}

func (lx *lexer) scanString() {
	startLine := lx.line
	for lx.peek() != '"' && !lx.atEnd() {
		if lx.peek() == '\n' {
			lx.line++
		}
		lx.advance()
	}

	if lx.atEnd() {
		lx.diags.Add(diag.Lexical(startLine, msgUnterminatedString))
		return
	}

	lx.advance() // closing quote
	lexeme := lx.source[lx.start:lx.current]
	lx.tokens = append(lx.tokens, token.NewString(lexeme, lexeme[1:len(lexeme)-1], lx.line))
}

func (lx *lexer) scanNumber() {
	for isDigit(lx.peek()) {
		lx.advance()
	}
	if lx.peek() == '.' && isDigit(lx.peekNext()) {
		lx.advance()
		for isDigit(lx.peek()) {
			lx.advance()
		}
	}

	lexeme := lx.source[lx.start:lx.current]
	// Only digit runs reach here; a range error still yields ±Inf.
	f, _ := strconv.ParseFloat(lexeme, 64)
	lx.tokens = append(lx.tokens, token.NewNumber(lexeme, f, lx.line))
}

func (lx *lexer) scanIdentifier() {
	for isAlphaNumeric(lx.peek()) {
		lx.advance()
	}
	lx.add(token.Lookup(lx.source[lx.start:lx.current]))
}

func (lx *lexer) add(kind token.Kind) {
	lx.tokens = append(lx.tokens, token.New(kind, lx.source[lx.start:lx.current], lx.line))
}

func (lx *lexer) addEither(next rune, matched, single token.Kind) {
	if lx.match(next) {
		lx.add(matched)
		return
	}
	lx.add(single)
}

func (lx *lexer) atEnd() bool {
	return lx.current >= len(lx.source)
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.source[lx.current:])
	lx.current += size
	return r
}

func (lx *lexer) match(expected rune) bool {
	if lx.atEnd() || rune(lx.source[lx.current]) != expected {
		return false
	}
	lx.current++
	return true
}

func (lx *lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.source[lx.current:])
	return r
}

func (lx *lexer) peekNext() rune {
	if lx.atEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(lx.source[lx.current:])
	if lx.current+size >= len(lx.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.source[lx.current+size:])
	return r
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
