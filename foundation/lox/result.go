// File: result.go
// Title: Run Results
// Description: Outcome of a combined scan, parse and evaluate run together
//              with its status classification and display rendering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial result model

package lox

import (
	"github.com/themifi/relox/foundation/lox/ast"
	"github.com/themifi/relox/foundation/lox/diag"
	"github.com/themifi/relox/foundation/lox/evaluator"
	"github.com/themifi/relox/foundation/lox/token"
	"github.com/themifi/relox/foundation/lox/value"
)

// Status classifies a run
type Status int

const (
	StatusOK Status = iota
	StatusSyntaxError
	StatusRuntimeError
)

// String returns the status name used in logs and journals
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSyntaxError:
		return "syntax_error"
	case StatusRuntimeError:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// ExitCode returns the conventional process exit code: 0, 65 for lexical
// or syntax errors and 70 for runtime errors
func (s Status) ExitCode() int {
	switch s {
	case StatusSyntaxError:
		return 65
	case StatusRuntimeError:
		return 70
	default:
		return 0
	}
}

// ParseStatus is the inverse of Status.String
func ParseStatus(s string) (Status, bool) {
	for _, st := range []Status{StatusOK, StatusSyntaxError, StatusRuntimeError} {
		if st.String() == s {
			return st, true
		}
	}
	return StatusOK, false
}

// Result is the outcome of Engine.Run. Expr and Value are set only when no
// diagnostics were reported; Runtime is set when evaluation failed.
type Result struct {
	Tokens      []token.Token
	Expr        ast.Expr
	Value       value.Value
	Diagnostics diag.List
	Runtime     *evaluator.RuntimeError
}

// Status classifies the result
func (r Result) Status() Status {
	switch {
	case r.Diagnostics.HasErrors():
		return StatusSyntaxError
	case r.Runtime != nil:
		return StatusRuntimeError
	default:
		return StatusOK
	}
}

// Output renders the value, the diagnostics one per line, or the runtime
// error, whichever applies
func (r Result) Output() string {
	switch r.Status() {
	case StatusSyntaxError:
		return r.Diagnostics.String()
	case StatusRuntimeError:
		return r.Runtime.Error()
	default:
		return r.Value.String()
	}
}

// Err returns the failure as a structured error, or nil on success
func (r Result) Err() error {
	switch r.Status() {
	case StatusSyntaxError:
		return r.Diagnostics.Err()
	case StatusRuntimeError:
		return r.Runtime.AsError()
	default:
		return nil
	}
}
