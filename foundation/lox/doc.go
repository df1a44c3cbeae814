// File: doc.go
// Title: Lox Front End Package Documentation
// Description: Package overview for the Lox expression front end.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial package documentation

/*
Package lox implements a front end for expressions of the Lox scripting
language: a scanner, a recursive descent parser and a tree-walking evaluator.

Stages:
  - scanner: source text to tokens plus lexical diagnostics
  - parser: tokens to one expression tree plus syntax diagnostics
  - evaluator: expression tree to one runtime value or one runtime error

The stages are pure and hold no state between calls. Lexical and syntax
diagnostics accumulate; runtime errors stop evaluation at the first failure.

Usage:

	engine := lox.New(lox.Options{})
	result := engine.Run("(2 + 3) * 4")
	fmt.Println(result.Output()) // 20

Diagnostics render as

	[line 1] Error at ')': Expect expression.

and runtime errors as

	Operands must be numbers.
	[line 1]
*/
package lox
