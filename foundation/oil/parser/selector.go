// File: selector.go
// Title: oil Selector Sub-grammar
// Description: Parses the inside of sequence[...]: indexes, slices and
//              sequence-select clauses with filter, order, group and
//              selection parts.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

var (
	clauseOperators = []string{"?", "->", "=>", "~>", "~"}
	arrows          = []string{"->", "=>", "~>"}
)

// selector parses after the opening [ and stops before the closing ]
func (s *state) selector(sequence mdwast.Node) (mdwast.Node, error) {
	pos := sequence.Position()

	if _, ok := s.expect(":"); ok {
		end, err := s.sliceEnd()
		if err != nil {
			return nil, err
		}
		return &mdwast.Slice{Sequence: sequence, End: end, Pos: pos}, nil
	}

	var key mdwast.Node
	if s.clauseAhead() {
		clause, conditionalKey, err := s.clause(sequence)
		if err != nil {
			return nil, err
		}
		if conditionalKey == nil {
			return clause, nil
		}
		key = conditionalKey
	} else {
		var err error
		if key, err = s.expression(); err != nil {
			return nil, err
		}
	}

	if _, ok := s.expect(":"); ok {
		end, err := s.sliceEnd()
		if err != nil {
			return nil, err
		}
		return &mdwast.Slice{Sequence: sequence, Start: key, End: end, Pos: pos}, nil
	}
	return &mdwast.Index{Sequence: sequence, Key: key, Pos: pos}, nil
}

func (s *state) sliceEnd() (mdwast.Node, error) {
	if s.is("]") {
		return nil, nil
	}
	return s.expression()
}

// clauseAhead reports whether a key [, index] binding followed by a
// clause operator starts here
func (s *state) clauseAhead() bool {
	if !s.identifierAt(0) {
		return false
	}
	if s.isAt(1, clauseOperators...) {
		return true
	}
	return s.isAt(1, ",") && s.identifierAt(2) && s.isAt(3, clauseOperators...)
}

func (s *state) identifierAt(i int) bool {
	tok, ok := s.peek(i)
	return ok && tok.Kind == TokenIdentifier && !tok.IsKeyword()
}

// clause parses a sequence-select clause. When a ? condition turns out to
// be followed by : the clause was a conditional key, which is returned as
// the second result instead.
func (s *state) clause(sequence mdwast.Node) (mdwast.Node, mdwast.Node, error) {
	keyTok := s.next()
	sel := &mdwast.SequenceSelect{Sequence: sequence, Key: keyTok.Text, Pos: sequence.Position()}
	if _, ok := s.expect(","); ok {
		sel.Index = s.next().Text
	}

	var err error
	if _, ok := s.expect("?"); ok {
		if sel.Condition, err = s.switchExpr(); err != nil {
			return nil, nil, err
		}
		if sel.Index == "" && s.is(":") {
			s.pos++
			negative, err := s.expression()
			if err != nil {
				return nil, nil, err
			}
			key := &mdwast.Identifier{Name: keyTok.Text, Pos: keyTok.Position()}
			return nil, &mdwast.Conditional{
				Test:     key,
				Positive: sel.Condition,
				Negative: negative,
				Pos:      keyTok.Position(),
			}, nil
		}
	}

	if _, ok := s.expect("~"); ok {
		if sel.Order, err = s.switchExpr(); err != nil {
			return nil, nil, err
		}
	}
	if (sel.Condition != nil || sel.Order != nil) && s.is(":") {
		s.pos++
		if sel.Group, err = s.switchExpr(); err != nil {
			return nil, nil, err
		}
	}

	arrow, ok := s.expect(arrows...)
	if !ok {
		if sel.Condition == nil && sel.Order == nil {
			return nil, nil, s.unexpected(arrows...)
		}
		return sel, nil, nil
	}
	if sel.Selection, err = s.expression(); err != nil {
		return nil, nil, err
	}
	sel.Concat = arrow.Text == "=>"
	sel.Traverse = arrow.Text == "~>"
	return sel, nil, nil
}
