// Package error provides structured error handling for the oil toolkit.
//
// Package: error
// Title: oil Error Handling Framework
// Description: This package implements a structured error type with error codes,
//              severity levels, details and stack traces. Every diagnostic the
//              lexer and parser produce travels through it, so hosts (CLI, parse
//              service, REPL) can classify and log failures uniformly.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Syntax diagnostic codes for oil notation, dropped i18n keys
//
// Usage:
//   import mdwerror "github.com/msto63/oil/foundation/core/error"
//
//   err := mdwerror.New("unterminated string").
//     WithCode(mdwerror.CodeUnterminatedLiteral).
//     WithDetail("line", 3)
//
//   if mdwerror.HasCode(err, mdwerror.CodeUnterminatedLiteral) {
//     // report to the user
//   }
package error
