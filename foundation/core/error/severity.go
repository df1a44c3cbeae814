// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification for errors, derived from the error
//              code unless set explicitly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Severity mapping for interpreter codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers rejected user input such as malformed source text
	SeverityLow Severity = iota

	// SeverityMedium covers failures with a workaround, e.g. a type error at runtime
	SeverityMedium

	// SeverityHigh covers failures of a host component such as the journal database
	SeverityHigh

	// SeverityCritical makes the service unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the severity level for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeServiceUnavailable:
		return SeverityCritical
	case CodeDatabaseError, CodeServiceInitialization, CodeInternal:
		return SeverityHigh
	case CodeLoxLexical, CodeLoxSyntax, CodeLoxDepth, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
