// File: doc.go
// Title: oil Abstract Syntax Tree Package Documentation
// Description: Defines the Abstract Syntax Tree nodes for parsed oil notation,
//              the visitor used for exhaustive traversal, a source-like printer
//              and the interchange encoder.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST implementation
// - 2026-10-19 v0.2.0: Node set for oil notation, interchange encoding

/*
Package ast defines the Abstract Syntax Tree for oil notation.

Node is a closed sum type: every concrete node lives in this package and
implements the unexported marker method. Nodes are built once by the parser
and not mutated afterwards.

The package provides:
  • one struct per syntactic shape (Binary, Object, SequenceSelect, ...)
  • the Visitor interface and Walk for traversal
  • String() renderings close to oil source
  • Encode, the map/slice interchange form used by hosts
*/
package ast
