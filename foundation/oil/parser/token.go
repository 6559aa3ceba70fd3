// File: token.go
// Title: oil Tokens
// Description: Token kinds, the token record and the enclosure state machine
//              that decides whether '<' opens an enclosed identifier.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial token definitions

package parser

import (
	"fmt"

	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

// TokenKind represents the type of a lexical token
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenOperator
	TokenPunctuation
	TokenNumber
	TokenString
	TokenVerbatim
)

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenIdentifier:
		return "identifier"
	case TokenOperator:
		return "operator"
	case TokenPunctuation:
		return "punctuation"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenVerbatim:
		return "verbatim"
	default:
		return "unknown"
	}
}

// VerbatimValue is the decoded value of a typed verbatim block
type VerbatimValue struct {
	Type    string
	Content string
}

// Token represents a lexical token with position information
type Token struct {
	Offset int    // Byte offset in the caller's text
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based, in runes)
	Text   string // Source text; the inner text for <...> identifiers
	Kind   TokenKind

	// Value holds the decoded constant: float64, string or VerbatimValue
	Value interface{}

	// Delimited marks identifiers written as <...>
	Delimited bool

	// Enclosure is the state the token was scanned under
	Enclosure Enclosure
}

// IsConstant reports whether the token is a number, string or verbatim literal
func (t Token) IsConstant() bool {
	return t.Kind == TokenNumber || t.Kind == TokenString || t.Kind == TokenVerbatim
}

// IsKeyword reports whether the token is one of true, false or null
func (t Token) IsKeyword() bool {
	if t.Kind != TokenIdentifier || t.Delimited {
		return false
	}
	switch t.Text {
	case "true", "false", "null":
		return true
	}
	return false
}

// Position converts the token location into an AST position
func (t Token) Position() mdwast.Position {
	return mdwast.Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// Enclosure is the lexer state that decides how '<' is read
type Enclosure int

const (
	// EnclosureEnabled reads '<' as the start of an enclosed identifier
	EnclosureEnabled Enclosure = iota

	// EnclosureDisabled reads '<' as an operator
	EnclosureDisabled
)

// String returns the state name
func (e Enclosure) String() string {
	if e == EnclosureEnabled {
		return "enabled"
	}
	return "disabled"
}

// scanClass classifies what the lexer just scanned for the enclosure transition
type scanClass int

const (
	// classOpen: ( { [ . , ; :
	classOpen scanClass = iota

	// classTransparent: whitespace and comments
	classTransparent

	// classConsuming: every other token
	classConsuming
)

var enclosureTransitions = [2][3]Enclosure{
	EnclosureEnabled: {
		classOpen:        EnclosureEnabled,
		classTransparent: EnclosureEnabled,
		classConsuming:   EnclosureDisabled,
	},
	EnclosureDisabled: {
		classOpen:        EnclosureEnabled,
		classTransparent: EnclosureDisabled,
		classConsuming:   EnclosureDisabled,
	},
}

func (e Enclosure) next(c scanClass) Enclosure {
	return enclosureTransitions[e][c]
}

// Operator tables
var (
	arrowOperators = map[string]bool{"->": true, "=>": true, "~>": true}

	twoCharOperators = map[string]bool{
		"==": true, "!=": true, "<=": true, ">=": true,
		"<<": true, ">>": true, "&&": true, "||": true,
	}

	oneCharOperators = map[rune]bool{
		'+': true, '-': true, '*': true, '/': true, '%': true,
		'<': true, '>': true, '!': true, '=': true, '~': true,
	}
)

const (
	openPunctuation  = "({[.,;:"
	closePunctuation = ")}]"
)
