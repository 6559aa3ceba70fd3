// File: parser.go
// Title: oil Recursive Descent Parser
// Description: Entry points of the oil parser: configuration, byte ranges and
//              stop characters, batch and single-expression parsing, detailed
//              results and diagnostic reporting. The grammar itself lives in
//              expr.go, primary.go, selector.go and object.go.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-19 v0.2.0: oil entry points, per-call state, ranges and stop characters

package parser

import (
	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

// DefaultMaxInputLength bounds the size of a parsed range
const DefaultMaxInputLength = 1 << 20

// Parser holds parser configuration. It keeps no per-call state and is safe
// for concurrent use.
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *mdwlog.Logger
	MaxInputLength int
}

// New creates a new oil parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.MaxInputLength < 0 {
		return nil, mdwerror.Newf("invalid max input length %d", opts.MaxInputLength).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "oil-parser"),
		options: opts,
	}, nil
}

// Default returns a parser using the default logger
func Default() *Parser {
	p, _ := New(Options{})
	return p
}

// Range selects the part of a text to parse
type Range struct {
	Start int
	End   int // 0 means end of text

	// Stop ends scanning before a token starting with one of these characters,
	// as long as no bracket opened inside the range is still open.
	Stop string
}

// At is the shorthand for a range starting at start
func At(start int) Range {
	return Range{Start: start}
}

// StopAt returns a copy of r with the given stop characters
func (r Range) StopAt(chars string) Range {
	r.Stop = chars
	return r
}

func (r Range) bounds(length int) (int, int, error) {
	end := r.End
	if end == 0 {
		end = length
	}
	if r.Start < 0 || r.Start > length || end < r.Start || end > length {
		return 0, 0, mdwerror.Newf("range [%d:%d] outside of text of length %d", r.Start, r.End, length).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("parse")
	}
	return r.Start, end, nil
}

// Result is the detailed outcome of Parse
type Result struct {
	Expressions []mdwast.Node

	// End is the offset of the first unconsumed token, or where scanning
	// ended. On failure it equals the range start.
	End int

	Err *mdwerror.Error
}

// ExpressionResult is the detailed outcome of ParseOne
type ExpressionResult struct {
	Expression mdwast.Node
	End        int
	Err        *mdwerror.Error
}

// Parse parses statements separated by optional ';' or ','. Failures yield
// an empty slice and are logged.
func (p *Parser) Parse(text string, r Range) []mdwast.Node {
	return p.ParseDetailed(text, r).Expressions
}

// ParseOne parses a single expression, nil on failure or empty input
func (p *Parser) ParseOne(text string, r Range) mdwast.Node {
	return p.ParseOneDetailed(text, r).Expression
}

// ParseDetailed parses statements and reports where parsing ended
func (p *Parser) ParseDetailed(text string, r Range) Result {
	s, start, err := p.begin(text, r)
	if err != nil {
		return Result{Expressions: []mdwast.Node{}, End: start, Err: p.report(err)}
	}

	timer := p.logger.StartTimer("parse").WithField("bytes", s.lexEnd-start)
	nodes, err := s.statements()
	if err != nil {
		timer.Cancel()
		return Result{Expressions: []mdwast.Node{}, End: start, Err: p.report(err)}
	}
	timer.WithField("statements", len(nodes)).Stop()

	return Result{Expressions: nodes, End: s.endOffset()}
}

// ParseOneDetailed parses one expression and reports where it ended
func (p *Parser) ParseOneDetailed(text string, r Range) ExpressionResult {
	s, start, err := p.begin(text, r)
	if err != nil {
		return ExpressionResult{End: start, Err: p.report(err)}
	}
	if !s.more() {
		return ExpressionResult{End: s.endOffset()}
	}

	node, err := s.expression()
	if err != nil {
		return ExpressionResult{End: start, Err: p.report(err)}
	}
	return ExpressionResult{Expression: node, End: s.endOffset()}
}

// ParseTokens parses an already lexed token sequence as statements
func (p *Parser) ParseTokens(tokens []Token) ([]mdwast.Node, error) {
	end := 0
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		end = last.Offset + len(last.Text)
	}
	nodes, err := newState(tokens, end).statements()
	if err != nil {
		return []mdwast.Node{}, p.report(err)
	}
	return nodes, nil
}

func (p *Parser) begin(text string, r Range) (*state, int, error) {
	start, end, err := r.bounds(len(text))
	if err != nil {
		return nil, r.Start, err
	}
	if end-start > p.options.MaxInputLength {
		return nil, start, mdwerror.Newf("input exceeds maximum length: %d > %d", end-start, p.options.MaxInputLength).
			WithCode(mdwerror.CodeInputTooLarge).
			WithOperation("parse")
	}

	tokens, lexEnd, err := LexRange(text, r)
	if err != nil {
		return nil, start, err
	}

	p.logger.Trace("lexed range", mdwlog.Fields{
		"start":  start,
		"end":    lexEnd,
		"tokens": len(tokens),
	})
	return newState(tokens, lexEnd), start, nil
}

// report logs a failure and returns it as a coded error
func (p *Parser) report(err error) *mdwerror.Error {
	d := Diagnostic(err)
	p.logger.LogError(d)
	return d
}

// state is the per-call parser state
type state struct {
	tokens    []Token
	pos       int
	lexEnd    int
	depth     int // bracket nesting; 0 is statement level
	exprStart int // index of the first token of the innermost expression
}

func newState(tokens []Token, lexEnd int) *state {
	return &state{tokens: tokens, lexEnd: lexEnd, exprStart: -1}
}

func (s *state) statements() ([]mdwast.Node, error) {
	nodes := []mdwast.Node{}
	for s.more() {
		node, err := s.expression()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		s.expect(";", ",")
	}
	return nodes, nil
}

func (s *state) endOffset() int {
	if s.pos < len(s.tokens) {
		return s.tokens[s.pos].Offset
	}
	return s.lexEnd
}

func (s *state) more() bool {
	return s.pos < len(s.tokens)
}

// peek returns the token i positions ahead
func (s *state) peek(i int) (Token, bool) {
	if s.pos+i < len(s.tokens) {
		return s.tokens[s.pos+i], true
	}
	return Token{}, false
}

// isAt reports whether the token i positions ahead is an operator or
// punctuation token with one of the given texts
func (s *state) isAt(i int, texts ...string) bool {
	tok, ok := s.peek(i)
	if !ok || (tok.Kind != TokenOperator && tok.Kind != TokenPunctuation) {
		return false
	}
	for _, t := range texts {
		if tok.Text == t {
			return true
		}
	}
	return false
}

func (s *state) is(texts ...string) bool {
	return s.isAt(0, texts...)
}

// expect consumes the next token if it matches
func (s *state) expect(texts ...string) (Token, bool) {
	if !s.is(texts...) {
		return Token{}, false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

// consume requires one of texts
func (s *state) consume(texts ...string) (Token, error) {
	if tok, ok := s.expect(texts...); ok {
		return tok, nil
	}
	return Token{}, s.unexpected(texts...)
}

func (s *state) next() Token {
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *state) identifier() (Token, error) {
	tok, ok := s.peek(0)
	if !ok || tok.Kind != TokenIdentifier {
		return Token{}, s.unexpected("identifier")
	}
	s.pos++
	return tok, nil
}

func (s *state) unexpected(expected ...string) *ParseError {
	return s.fail(mdwerror.CodeUnexpectedToken, "unexpected token", expected...)
}

func (s *state) fail(code mdwerror.Code, message string, expected ...string) *ParseError {
	tok, ok := s.peek(0)
	if !ok {
		return &ParseError{
			Code:     code,
			Message:  message,
			Expected: expected,
			AtEnd:    true,
			Offset:   s.lexEnd,
		}
	}
	return &ParseError{
		Code:     code,
		Message:  message,
		Token:    tok.Text,
		Expected: expected,
		Line:     tok.Line,
		Column:   tok.Column,
		Offset:   tok.Offset,
	}
}

// failAt reports a problem with an already consumed token
func failAt(tok Token, code mdwerror.Code, message string) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		Token:   tok.Text,
		Line:    tok.Line,
		Column:  tok.Column,
		Offset:  tok.Offset,
	}
}

// Package-level entry points over a default parser

// Parse parses statements with a default parser
func Parse(text string, r Range) []mdwast.Node {
	return Default().Parse(text, r)
}

// ParseOne parses one expression with a default parser
func ParseOne(text string, r Range) mdwast.Node {
	return Default().ParseOne(text, r)
}

// ParseDetailed parses statements with a default parser
func ParseDetailed(text string, r Range) Result {
	return Default().ParseDetailed(text, r)
}

// ParseOneDetailed parses one expression with a default parser
func ParseOneDetailed(text string, r Range) ExpressionResult {
	return Default().ParseOneDetailed(text, r)
}
