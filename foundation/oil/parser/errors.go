// File: errors.go
// Title: oil Diagnostics
// Description: Lexical and syntax error types with source positions and their
//              conversion into coded platform errors.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial diagnostics

package parser

import (
	"errors"
	"fmt"
	"strings"

	mdwerror "github.com/msto63/oil/foundation/core/error"
)

// LexError reports malformed input found by the lexer
type LexError struct {
	Code    mdwerror.Code
	Message string
	Line    int
	Column  int
	Offset  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// ParseError reports a token sequence the grammar does not accept
type ParseError struct {
	Code     mdwerror.Code
	Message  string
	Token    string   // offending token text, "" at end of input
	Expected []string // acceptable token texts, if known
	AtEnd    bool
	Line     int
	Column   int
	Offset   int
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&sb, ", expecting [%s]", strings.Join(e.Expected, " "))
	}
	if e.AtEnd {
		sb.WriteString(" at end of input")
	} else {
		fmt.Fprintf(&sb, " at line %d, column %d (near '%s')", e.Line, e.Column, e.Token)
	}
	return sb.String()
}

// Diagnostic converts a lexer or parser failure into a coded error carrying
// line, column and offset details. Other errors are wrapped unchanged.
func Diagnostic(err error) *mdwerror.Error {
	if err == nil {
		return nil
	}
	if mdwErr, ok := err.(*mdwerror.Error); ok {
		return mdwErr
	}

	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return mdwerror.Wrap(err, "").
			WithCode(lexErr.Code).
			WithOperation("lex").
			WithDetails(map[string]interface{}{
				"line":   lexErr.Line,
				"column": lexErr.Column,
				"offset": lexErr.Offset,
			})
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		d := mdwerror.Wrap(err, "").
			WithCode(parseErr.Code).
			WithOperation("parse").
			WithDetail("at_end", parseErr.AtEnd)
		if !parseErr.AtEnd {
			d.WithDetails(map[string]interface{}{
				"line":   parseErr.Line,
				"column": parseErr.Column,
				"offset": parseErr.Offset,
				"token":  parseErr.Token,
			})
		}
		return d
	}

	return mdwerror.Wrap(err, "").WithCode(mdwerror.CodeInternal)
}

// Position extracts line, column and offset from a diagnostic or from the
// line and column details of a coded error
func Position(err error) (line, column, offset int, ok bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Line, lexErr.Column, lexErr.Offset, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) && !parseErr.AtEnd {
		return parseErr.Line, parseErr.Column, parseErr.Offset, true
	}

	// Diagnostics rebuilt from a service response only carry details
	if mdwErr, ok := mdwerror.As(err); ok {
		details := mdwErr.Details()
		line, hasLine := details["line"].(int)
		column, hasColumn := details["column"].(int)
		offset, _ := details["offset"].(int)
		if hasLine && hasColumn {
			return line, column, offset, true
		}
	}
	return 0, 0, 0, false
}
