// File: verbatim.go
// Title: oil Verbatim Block Scanner
// Description: Scans @-introduced verbatim blocks in their three delimiter
//              styles: quote ("..." or prefix"...prefix"), bracket ([...]@)
//              and line (prefix newline ... prefix@).
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial verbatim scanner

package parser

import (
	"strings"
	"unicode/utf8"

	mdwerror "github.com/msto63/oil/foundation/core/error"
)

// readVerbatim scans a verbatim block with the cursor on '@'
func (l *Lexer) readVerbatim() (Token, error) {
	tok := l.mark(TokenVerbatim)
	input := l.input[:l.end]

	prefixStart := l.pos + 1
	idx := strings.IndexAny(input[prefixStart:], "\"[\n")
	if idx < 0 {
		return Token{}, l.errorAt(mdwerror.CodeUnterminatedLiteral, "verbatim delimiter not set", tok)
	}
	prefix := input[prefixStart : prefixStart+idx]
	contentStart := prefixStart + idx + 1

	var (
		content  string
		blockEnd int
		typed    bool
		ok       bool
	)
	switch input[prefixStart+idx] {
	case '"':
		content, blockEnd, ok = scanQuoted(input, contentStart, prefix+`"`)
	case '[':
		content, blockEnd, ok = scanBracketed(input, contentStart)
		typed = true
	default:
		content, blockEnd, ok = scanLines(input, contentStart, strings.TrimSpace(prefix))
		typed = true
	}
	if !ok {
		return Token{}, l.errorAt(mdwerror.CodeUnterminatedLiteral, "unterminated verbatim block", tok)
	}

	l.advanceTo(blockEnd)
	tok.Text = input[tok.Offset:blockEnd]
	if typ := strings.TrimSpace(prefix); typed && typ != "" {
		tok.Value = VerbatimValue{Type: typ, Content: content}
	} else {
		tok.Value = content
	}
	return tok, nil
}

// scanQuoted reads up to the delimiter. A lone '"' delimiter treats '""' as
// an escaped quote; longer delimiters end at their first full occurrence.
func scanQuoted(input string, start int, delimiter string) (string, int, bool) {
	if len(delimiter) > 1 {
		k := strings.Index(input[start:], delimiter)
		if k < 0 {
			return "", 0, false
		}
		return input[start : start+k], start + k + len(delimiter), true
	}

	var sb strings.Builder
	for i := start; i < len(input); i++ {
		if input[i] != '"' {
			sb.WriteByte(input[i])
			continue
		}
		if i+1 < len(input) && input[i+1] == '"' {
			sb.WriteByte('"')
			i++
			continue
		}
		return sb.String(), i + 1, true
	}
	return "", 0, false
}

// scanBracketed finds the first ']' followed by optional blanks and '@'
func scanBracketed(input string, start int) (string, int, bool) {
	for at := start; at < len(input); at++ {
		k := strings.IndexByte(input[at:], '@')
		if k < 0 {
			return "", 0, false
		}
		at += k
		b := skipBlanksBack(input, start, at)
		if b > start && input[b-1] == ']' {
			return input[start : b-1], at + 1, true
		}
	}
	return "", 0, false
}

// scanLines finds the closing line: the type, optional blanks and '@', with
// only blanks before the type on its line. An empty type closes at the first '@'.
func scanLines(input string, start int, typ string) (string, int, bool) {
	for at := start; at < len(input); at++ {
		k := strings.IndexByte(input[at:], '@')
		if k < 0 {
			return "", 0, false
		}
		at += k
		if typ == "" {
			return input[start:at], at + 1, true
		}

		b := skipBlanksBack(input, start, at)
		typeStart := b - len(typ)
		if typeStart < start || input[typeStart:b] != typ {
			continue
		}
		lineStart := typeStart
		for lineStart > start {
			r, size := utf8.DecodeLastRuneInString(input[start:lineStart])
			if r == '\n' || !isBlank(r) {
				break
			}
			lineStart -= size
		}
		if lineStart == start || input[lineStart-1] == '\n' {
			return input[start:typeStart], at + 1, true
		}
	}
	return "", 0, false
}

// skipBlanksBack returns the offset after the last non-blank rune in input[floor:at]
func skipBlanksBack(input string, floor, at int) int {
	b := at
	for b > floor {
		r, size := utf8.DecodeLastRuneInString(input[floor:b])
		if !isBlank(r) {
			break
		}
		b -= size
	}
	return b
}
