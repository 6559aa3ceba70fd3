// File: lexer.go
// Title: oil Lexical Analyzer (Tokenizer)
// Description: Implements the lexical analysis phase of oil parsing. Converts
//              a byte range of the source into tokens with absolute offsets and
//              line/column positions, tracking the enclosure state and bracket
//              depth for stop characters.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-19 v0.2.0: oil tokens, verbatim blocks, enclosed identifiers

package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	mdwerror "github.com/msto63/oil/foundation/core/error"
)

const (
	eof = -1
	bom = '\uFEFF'
)

var escapes = map[rune]rune{
	'n': '\n', 'f': '\f', 'r': '\r', 't': '\t', 'v': '\v', '\'': '\'', '"': '"',
}

// Lexer performs lexical analysis of oil input. A Lexer is used for exactly
// one scan.
type Lexer struct {
	input  string
	pos    int  // offset of ch
	width  int  // byte width of ch
	ch     rune // current char, eof past the end
	end    int  // offset where the range ends
	line   int
	column int

	enclosure Enclosure
	stop      string
	depth     int
	stopped   bool
}

// NewLexer creates a lexer over the whole input
func NewLexer(input string) *Lexer {
	return newLexer(input, 0, len(input), "")
}

func newLexer(input string, start, end int, stop string) *Lexer {
	line, column := locate(input, start)
	l := &Lexer{
		input:     input,
		pos:       start,
		end:       end,
		line:      line,
		column:    column,
		enclosure: EnclosureEnabled,
		stop:      stop,
	}
	l.decode()
	return l
}

// locate returns the 1-based line and rune column of offset
func locate(input string, offset int) (int, int) {
	prefix := input[:offset]
	line := 1 + strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return line, 1 + utf8.RuneCountInString(prefix[lineStart:])
}

// Lex scans the whole text
func Lex(text string) ([]Token, error) {
	return NewLexer(text).Tokenize()
}

// LexRange scans the part of text selected by r and returns the tokens and
// the offset where scanning ended: the end of the range, or the position of
// the stop character that ended it.
func LexRange(text string, r Range) ([]Token, int, error) {
	start, end, err := r.bounds(len(text))
	if err != nil {
		return nil, 0, err
	}
	l := newLexer(text, start, end, r.Stop)
	tokens, err := l.Tokenize()
	if err != nil {
		return nil, start, err
	}
	return tokens, l.Offset(), nil
}

// Tokenize scans until the end of the range or a stop character
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Offset returns the current scan position
func (l *Lexer) Offset() int {
	return l.pos
}

// Stopped reports whether scanning ended at a stop character
func (l *Lexer) Stopped() bool {
	return l.stopped
}

// Next returns the next token; ok is false at the end of the range or at a
// stop character outside of brackets.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	if err := l.skipTransparent(); err != nil {
		return Token{}, false, err
	}
	if l.ch == eof || l.stopped {
		return Token{}, false, nil
	}
	if l.depth == 0 && l.stop != "" && strings.ContainsRune(l.stop, l.ch) {
		l.stopped = true
		return Token{}, false, nil
	}

	state := l.enclosure
	var class scanClass

	switch {
	case l.ch == '"' || l.ch == '\'':
		tok, err = l.readString()
		class = classConsuming
	case l.ch == '@':
		tok, err = l.readVerbatim()
		class = classConsuming
	case isDigit(l.ch) || l.ch == '.' && isDigit(l.peekChar()):
		tok, err = l.readNumber()
		class = classConsuming
	case isIdentifierStart(l.ch):
		tok = l.readIdentifier()
		class = classConsuming
	case l.ch == '<' && state == EnclosureEnabled:
		tok, err = l.readEnclosedIdentifier()
		class = classConsuming
	case l.ch == '?':
		tok = l.readQuestion()
		class = classConsuming
	case strings.ContainsRune(openPunctuation, l.ch):
		tok = l.single(TokenPunctuation)
		if strings.ContainsRune("({[", rune(tok.Text[0])) {
			l.depth++
		}
		class = classOpen
	case strings.ContainsRune(closePunctuation, l.ch):
		tok = l.single(TokenPunctuation)
		if l.depth > 0 {
			l.depth--
		}
		class = classConsuming
	default:
		tok, err = l.readOperator()
		class = classConsuming
	}
	if err != nil {
		return Token{}, false, err
	}

	tok.Enclosure = state
	l.enclosure = state.next(class)
	return tok, true, nil
}

// skipTransparent skips a leading byte-order mark, whitespace and comments
func (l *Lexer) skipTransparent() error {
	for l.ch != eof {
		switch {
		case l.pos == 0 && l.ch == bom:
			l.readChar()
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != eof && l.ch != '\n' {
				l.readChar()
			}
		default:
			return nil
		}
		l.enclosure = l.enclosure.next(classTransparent)
	}
	return nil
}

func (l *Lexer) skipBlockComment() error {
	start, line, column := l.pos, l.line, l.column
	l.readChar()
	l.readChar()
	for l.ch != eof {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
	return &LexError{
		Code:    mdwerror.CodeUnterminatedLiteral,
		Message: "unterminated comment",
		Line:    line,
		Column:  column,
		Offset:  start,
	}
}

func (l *Lexer) decode() {
	if l.pos >= l.end {
		l.ch, l.width = eof, 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.pos:l.end])
}

func (l *Lexer) readChar() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += l.width
	l.decode()
}

// advanceTo moves the cursor forward to offset, keeping line and column
func (l *Lexer) advanceTo(offset int) {
	for l.ch != eof && l.pos < offset {
		l.readChar()
	}
}

func (l *Lexer) peekChar() rune {
	next := l.pos + l.width
	if l.ch == eof || next >= l.end {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:l.end])
	return r
}

// mark starts a token at the current position
func (l *Lexer) mark(kind TokenKind) Token {
	return Token{Offset: l.pos, Line: l.line, Column: l.column, Kind: kind}
}

func (l *Lexer) single(kind TokenKind) Token {
	tok := l.mark(kind)
	tok.Text = string(l.ch)
	l.readChar()
	return tok
}

func (l *Lexer) errorAt(code mdwerror.Code, message string, tok Token) *LexError {
	return &LexError{
		Code:    code,
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
		Offset:  tok.Offset,
	}
}

func (l *Lexer) errorHere(code mdwerror.Code, message string) *LexError {
	return &LexError{
		Code:    code,
		Message: message,
		Line:    l.line,
		Column:  l.column,
		Offset:  l.pos,
	}
}

func (l *Lexer) readIdentifier() Token {
	tok := l.mark(TokenIdentifier)
	for l.ch != eof && (isIdentifierStart(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	tok.Text = l.input[tok.Offset:l.pos]
	return tok
}

func (l *Lexer) readEnclosedIdentifier() (Token, error) {
	tok := l.mark(TokenIdentifier)
	tok.Delimited = true
	l.readChar()
	start := l.pos
	for l.ch != '>' {
		switch l.ch {
		case eof:
			return Token{}, l.errorAt(mdwerror.CodeUnterminatedLiteral, "unterminated enclosed identifier", tok)
		case '\n', '\r':
			return Token{}, l.errorHere(mdwerror.CodeIllegalEnclosedIdentifierCharacter, "illegal character in enclosed identifier")
		}
		l.readChar()
	}
	tok.Text = l.input[start:l.pos]
	l.readChar()
	return tok, nil
}

func (l *Lexer) readQuestion() Token {
	tok := l.mark(TokenOperator)
	switch l.peekChar() {
	case '?', '=':
		tok.Text = l.input[l.pos : l.pos+2]
		l.readChar()
		l.readChar()
	default:
		tok.Text = "?"
		l.readChar()
	}
	return tok
}

func (l *Lexer) readOperator() (Token, error) {
	tok := l.mark(TokenOperator)
	if next := l.peekChar(); next != eof {
		two := string(l.ch) + string(next)
		if arrowOperators[two] || twoCharOperators[two] {
			tok.Text = two
			l.readChar()
			l.readChar()
			return tok, nil
		}
	}
	if oneCharOperators[l.ch] {
		tok.Text = string(l.ch)
		l.readChar()
		return tok, nil
	}
	return Token{}, l.errorHere(mdwerror.CodeUnexpectedCharacter, "unexpected character '"+string(l.ch)+"'")
}

func (l *Lexer) readNumber() (Token, error) {
	tok := l.mark(TokenNumber)
	seenDot, seenExp := false, false

scan:
	for l.ch != eof {
		switch {
		case isDigit(l.ch):
		case l.ch == '.' && !seenDot && !seenExp:
			seenDot = true
		case (l.ch == 'e' || l.ch == 'E') && !seenExp:
			next := l.peekChar()
			if !isDigit(next) && next != '+' && next != '-' {
				break scan
			}
			seenExp = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				if !isDigit(l.peekChar()) {
					return Token{}, l.errorHere(mdwerror.CodeInvalidExponent, "invalid exponent")
				}
			}
		default:
			break scan
		}
		l.readChar()
	}

	tok.Text = l.input[tok.Offset:l.pos]
	value, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !isRangeError(err) {
		return Token{}, l.errorAt(mdwerror.CodeInvalidExponent, "invalid number '"+tok.Text+"'", tok)
	}
	tok.Value = value
	return tok, nil
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

func (l *Lexer) readString() (Token, error) {
	tok := l.mark(TokenString)
	quote := l.ch
	l.readChar()

	var sb strings.Builder
	for l.ch != quote {
		switch l.ch {
		case eof:
			return Token{}, l.errorAt(mdwerror.CodeUnterminatedLiteral, "unterminated string", tok)
		case '\\':
			l.readChar()
			if l.ch == eof {
				return Token{}, l.errorAt(mdwerror.CodeUnterminatedLiteral, "unterminated string", tok)
			}
			if l.ch == 'u' {
				r, err := l.readUnicodeEscape()
				if err != nil {
					return Token{}, err
				}
				sb.WriteRune(r)
				continue
			}
			if rep, ok := escapes[l.ch]; ok {
				sb.WriteRune(rep)
			} else {
				sb.WriteRune(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	l.readChar()

	tok.Text = l.input[tok.Offset:l.pos]
	tok.Value = sb.String()
	return tok, nil
}

// readUnicodeEscape decodes \uXXXX with the cursor on 'u' and leaves it after
// the last hex digit. A surrogate pair written as two escapes yields one rune.
func (l *Lexer) readUnicodeEscape() (rune, error) {
	first, err := l.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(first) {
		return first, nil
	}

	rest := l.input[l.pos:l.end]
	if len(rest) >= 6 && rest[0] == '\\' && rest[1] == 'u' {
		if low, err := strconv.ParseUint(rest[2:6], 16, 32); err == nil {
			if r := utf16.DecodeRune(first, rune(low)); r != utf8.RuneError {
				l.advanceTo(l.pos + 6)
				return r, nil
			}
		}
	}
	return utf8.RuneError, nil
}

func (l *Lexer) readHex4() (rune, error) {
	start := l.pos + 1
	if start+4 > l.end {
		return 0, l.errorHere(mdwerror.CodeInvalidEscape, "invalid unicode escape [\\"+l.input[l.pos:l.end]+"]")
	}
	hex := l.input[start : start+4]
	for _, c := range hex {
		if !isHexDigit(c) {
			return 0, l.errorHere(mdwerror.CodeInvalidEscape, "invalid unicode escape [\\u"+hex+"]")
		}
	}
	value, _ := strconv.ParseUint(hex, 16, 32)
	l.advanceTo(start + 4)
	return rune(value), nil
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentifierStart(ch rune) bool {
	return ch == '_' || ch == '$' || ch == '#' || unicode.IsLetter(ch)
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\r', '\n', '\t', '\v', '\u00A0':
		return true
	}
	return false
}

func isBlank(ch rune) bool {
	return isWhitespace(ch) || ch == '\f'
}
