// File: doc.go
// Title: oil Notation Package Documentation
// Description: Documents the oil notation front end: lexer, parser, AST and
//              interchange encoding.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial TCOL implementation with parser and AST
// - 2026-10-19 v0.2.0: Rewritten for oil notation

/*
Package oil parses oil notation into an abstract syntax tree.

Package: oil
Title: oil Notation Front End
Description: oil notation extends JSON-like literals with operator
             expressions, typed and referenced object literals, sequence
             selectors, conditional and switch expressions, compound numbers
             with unit suffixes and verbatim blocks.
Author: msto63 with Claude Sonnet 4.0
Version: v0.2.0
Created: 2025-01-25
Modified: 2026-10-19

Change History:
- 2025-01-25 v0.1.0: Initial TCOL implementation
- 2026-10-19 v0.2.0: oil notation

# Notation Overview

	box { a: 1, b: "text", c: [2, 1, 3], [child()] }   # typed object with items
	ref1 box(1, 2)                                     # reference, type, initializer
	eight 8                                            # reference value
	{ weight: 1.5 k 20gr }                             # compound number
	states[x ? x.id == "id1" -> x]                     # filter and select
	states[x ~ -x.time]                                # sort
	a ?? b => c                                        # null coalescing, concat
	x ?= 1 : "one" ?= 2 : "two" : "many"               # switch
	@ sql [ select * from t ]@                         # typed verbatim block

Identifiers may be written as <any text> where an operand is expected.

# Usage

	nodes := oil.Parse(`box { a: 1 }`, oil.Range{})
	res := oil.ParseDetailed(text, oil.At(offset).StopAt("}"))
	if res.Err != nil {
		// res.Err carries code, line and column
	}
	doc := oil.EncodeAll(res.Expressions)

Failures never escape as panics. The plain forms return an empty result and
log the diagnostic; the detailed forms also return it.

# Packages

  - parser: lexer, tokens, grammar and diagnostics
  - ast: node types, printer, walker and interchange encoder
*/
package oil
