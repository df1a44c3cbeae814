// Package error provides the structured error type shared by the relox
// front end and its hosts.
//
// Package: error
// Title: relox Error Handling
// Description: Implements a coded error type with severity, details, operation
//              context and a captured stack. Scanner and parser diagnostics as
//              well as runtime errors are converted into this type whenever
//              they leave the core, so hosts can log and map them uniformly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Interpreter codes, trimmed localization and user context
//
// Usage:
//
//	import mdwerror "github.com/themifi/relox/foundation/core/error"
//
//	err := mdwerror.New("Operands must be numbers.").
//		WithCode(mdwerror.CodeLoxRuntime).
//		WithDetail("line", 3)
//
//	if mdwerror.HasCode(err, mdwerror.CodeLoxRuntime) {
//		// runtime failure, exit code 70
//	}
package error
