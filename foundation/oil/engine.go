// File: engine.go
// Title: oil Engine
// Description: Couples a configured parser with logging and exposes the
//              lexing, parsing, checking and encoding operations hosts use.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial high-level engine implementation
// - 2026-10-19 v0.2.0: Reworked around the oil lexer and parser

package oil

import (
	"fmt"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
)

// Aliases for the types hosts handle most
type (
	Node             = mdwast.Node
	Token            = mdwparser.Token
	Range            = mdwparser.Range
	Result           = mdwparser.Result
	ExpressionResult = mdwparser.ExpressionResult
)

// Engine is a configured oil front end. It is safe for concurrent use.
type Engine struct {
	parser  *mdwparser.Parser
	logger  *mdwlog.Logger
	options Options
}

// Options configures an Engine
type Options struct {
	// Logger for engine operations (optional, defaults to the default logger)
	Logger *mdwlog.Logger

	// MaxInputLength limits the size of a parsed range (default: 1 MiB)
	MaxInputLength int
}

// NewEngine creates an engine with the given options
func NewEngine(opts ...Options) (*Engine, error) {
	options := Options{
		Logger:         mdwlog.GetDefault(),
		MaxInputLength: mdwparser.DefaultMaxInputLength,
	}
	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxInputLength != 0 {
			options.MaxInputLength = provided.MaxInputLength
		}
	}

	logger := options.Logger.WithField("component", "oil-engine")

	p, err := mdwparser.New(mdwparser.Options{
		Logger:         options.Logger,
		MaxInputLength: options.MaxInputLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize oil parser: %w", err)
	}

	logger.Debug("oil engine initialized", mdwlog.Fields{
		"maxInputLength": options.MaxInputLength,
	})

	return &Engine{parser: p, logger: logger, options: options}, nil
}

// Parser returns the underlying parser
func (e *Engine) Parser() *mdwparser.Parser {
	return e.parser
}

// Lex scans the whole text. Failures are logged and returned as coded errors.
func (e *Engine) Lex(text string) ([]Token, error) {
	tokens, err := mdwparser.Lex(text)
	if err != nil {
		d := mdwparser.Diagnostic(err)
		e.logger.LogError(d)
		return nil, d
	}
	return tokens, nil
}

// Parse parses the statements in r, empty on failure
func (e *Engine) Parse(text string, r Range) []Node {
	return e.parser.Parse(text, r)
}

// ParseOne parses one expression in r, nil on failure
func (e *Engine) ParseOne(text string, r Range) Node {
	return e.parser.ParseOne(text, r)
}

// ParseDetailed parses the statements in r and reports where parsing ended
func (e *Engine) ParseDetailed(text string, r Range) Result {
	return e.parser.ParseDetailed(text, r)
}

// ParseOneDetailed parses one expression in r and reports where it ended
func (e *Engine) ParseOneDetailed(text string, r Range) ExpressionResult {
	return e.parser.ParseOneDetailed(text, r)
}

// Check validates the whole text, returning the first diagnostic or nil
func (e *Engine) Check(text string) error {
	if res := e.parser.ParseDetailed(text, Range{}); res.Err != nil {
		return res.Err
	}
	return nil
}

// Document parses text and returns its interchange form
func (e *Engine) Document(text string, r Range) ([]interface{}, *mdwerror.Error) {
	res := e.parser.ParseDetailed(text, r)
	if res.Err != nil {
		return nil, res.Err
	}
	return mdwast.EncodeAll(res.Expressions), nil
}
