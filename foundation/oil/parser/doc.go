// File: doc.go
// Title: oil Parser Package Documentation
// Description: Lexer and recursive-descent parser for oil notation.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-19 v0.2.0: oil notation lexer and grammar

/*
Package parser turns oil notation into AST nodes.

Parsing happens in two strictly layered steps. The Lexer materializes the
whole token sequence of the requested range once; the parser then consumes
that slice left to right through one function per precedence level:

	assignment → concat (=>) → switch (?=) → conditional (?:) → || → && →
	== != → < > <= >= → << >> → + - → * / % → ?? → unary → primary

Selectors ([...]) and object literals (type {...}) have their own small
sub-grammars. A Parser only holds configuration; every call builds fresh
scanner and parser state, so one Parser can serve concurrent callers.

Failures never escape as panics. The plain entry points return an empty
result and log the diagnostic, the detailed ones also hand the error back.
*/
package parser
