// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify failures of the
//              interpreter core and of the hosts embedding it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Replaced platform codes with interpreter codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Interpreter core
	CodeLoxLexical Code = "LOX_LEXICAL"
	CodeLoxSyntax  Code = "LOX_SYNTAX"
	CodeLoxDepth   Code = "LOX_DEPTH"
	CodeLoxRuntime Code = "LOX_RUNTIME"

	// Hosting
	CodeConfigError           Code = "CONFIG_ERROR"
	CodeDatabaseError         Code = "DATABASE_ERROR"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeLoxLexical, CodeLoxSyntax, CodeLoxDepth, CodeLoxRuntime,
		CodeConfigError, CodeDatabaseError, CodeServiceInitialization, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLoxLexical, CodeLoxSyntax, CodeLoxDepth:
		return "static"
	case CodeLoxRuntime:
		return "runtime"
	case CodeConfigError:
		return "configuration"
	case CodeDatabaseError, CodeServiceInitialization, CodeServiceUnavailable:
		return "service"
	default:
		return "generic"
	}
}

// IsDiagnostic reports whether the code stems from rejected source text
// rather than from a failure of the host.
func (c Code) IsDiagnostic() bool {
	switch c {
	case CodeLoxLexical, CodeLoxSyntax, CodeLoxDepth, CodeLoxRuntime:
		return true
	}
	return false
}
