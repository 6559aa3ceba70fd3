// File: oil.go
// Title: oil Package API
// Description: Package-level entry points over a lazily created default
//              engine, plus the interchange encoders.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial TCOL engine implementation
// - 2026-10-19 v0.2.0: Replaced by the oil entry points

package oil

import (
	"sync"

	mdwast "github.com/msto63/oil/foundation/oil/ast"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
)

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the shared engine built from the default options
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine, _ = NewEngine()
	})
	return defaultEngine
}

// At is the range starting at start and running to the end of the text
func At(start int) Range {
	return mdwparser.At(start)
}

// Lex scans the whole text
func Lex(text string) ([]Token, error) {
	return Default().Lex(text)
}

// Parse parses statements; the result is empty on failure
func Parse(text string, r Range) []Node {
	return Default().Parse(text, r)
}

// ParseOne parses one expression; nil on failure or empty input
func ParseOne(text string, r Range) Node {
	return Default().ParseOne(text, r)
}

// ParseDetailed parses statements and reports the end offset and any error
func ParseDetailed(text string, r Range) Result {
	return Default().ParseDetailed(text, r)
}

// ParseOneDetailed parses one expression and reports the end offset and any error
func ParseOneDetailed(text string, r Range) ExpressionResult {
	return Default().ParseOneDetailed(text, r)
}

// Check validates text with the default engine
func Check(text string) error {
	return Default().Check(text)
}

// Encode converts a node into its interchange value
func Encode(n Node) interface{} {
	return mdwast.Encode(n)
}

// EncodeAll converts a statement list into interchange values
func EncodeAll(nodes []Node) []interface{} {
	return mdwast.EncodeAll(nodes)
}
