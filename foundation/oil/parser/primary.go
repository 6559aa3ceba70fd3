// File: primary.go
// Title: oil Primary Expressions
// Description: Parenthesized expressions, arrays, constants, identifier
//              disambiguation and the postfix selector/field loop.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

func (s *state) primary() (mdwast.Node, error) {
	tok, ok := s.peek(0)
	if !ok {
		return nil, s.fail(mdwerror.CodeNotAPrimaryExpression, "not a primary expression")
	}

	var (
		node mdwast.Node
		err  error
	)
	switch {
	case s.is("("):
		s.pos++
		s.depth++
		if node, err = s.expression(); err != nil {
			return nil, err
		}
		if _, err = s.consume(")"); err != nil {
			return nil, err
		}
		s.depth--

	case s.is("["):
		s.pos++
		if node, err = s.array(tok); err != nil {
			return nil, err
		}

	case s.is("{"):
		obj := &mdwast.Object{Fields: map[string]mdwast.Node{}, Pos: tok.Position()}
		if err = s.fillObject(obj); err != nil {
			return nil, err
		}
		node = obj

	case tok.IsKeyword():
		s.pos++
		node = keyword(tok)

	case tok.Kind == TokenIdentifier:
		if s.pos == s.exprStart && s.isAt(1, "->") {
			return s.selectShorthand()
		}
		if node, err = s.named(); err != nil {
			return nil, err
		}

	case tok.IsConstant():
		node = s.constant()

	default:
		return nil, s.fail(mdwerror.CodeNotAPrimaryExpression, "not a primary expression")
	}

	return s.postfix(node)
}

// postfix consumes any run of [selector] and .field suffixes
func (s *state) postfix(node mdwast.Node) (mdwast.Node, error) {
	for {
		switch {
		case s.is("["):
			s.pos++
			s.depth++
			selected, err := s.selector(node)
			if err != nil {
				return nil, err
			}
			if _, err := s.consume("]"); err != nil {
				return nil, err
			}
			s.depth--
			node = selected

		case s.is("."):
			s.pos++
			field, err := s.identifier()
			if err != nil {
				return nil, err
			}
			node = &mdwast.FieldAccess{Object: node, Field: field.Text, Pos: node.Position()}

		default:
			return node, nil
		}
	}
}

// array parses the elements after an opening [
func (s *state) array(open Token) (mdwast.Node, error) {
	s.depth++
	elements, err := s.list("]")
	if err != nil {
		return nil, err
	}
	s.depth--
	return &mdwast.Array{Elements: elements, Pos: open.Position()}, nil
}

// list parses comma separated expressions up to and including closer.
// An empty list and a trailing comma are both accepted.
func (s *state) list(closer string) ([]mdwast.Node, error) {
	items := []mdwast.Node{}
	for {
		if _, ok := s.expect(closer); ok {
			return items, nil
		}
		item, err := s.expression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if _, ok := s.expect(","); !ok {
			if _, err := s.consume(closer); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
}

func (s *state) selectShorthand() (mdwast.Node, error) {
	key := s.next()
	s.next() // ->
	selection, err := s.expression()
	if err != nil {
		return nil, err
	}
	return &mdwast.Select{Key: key.Text, Selection: selection, Pos: key.Position()}, nil
}

// named resolves a leading identifier into a ref-value, an object head or
// a plain identifier
func (s *state) named() (mdwast.Node, error) {
	name := s.next()
	next, ok := s.peek(0)
	switch {
	case !ok:
		return &mdwast.Identifier{Name: name.Text, Pos: name.Position()}, nil

	case next.IsConstant() || next.IsKeyword():
		s.pos++
		var value mdwast.Node
		if next.IsKeyword() {
			value = keyword(next)
		} else {
			value = literal(next)
		}
		return &mdwast.RefValue{Ref: name.Text, Value: value, Pos: name.Position()}, nil

	case next.Kind == TokenIdentifier:
		s.pos++
		return s.object(name, next.Text, name.Text)

	case s.is("{", "("):
		return s.object(name, name.Text, "")
	}
	return &mdwast.Identifier{Name: name.Text, Pos: name.Position()}, nil
}

// constant parses a constant token, folding number/unit pairs into a
// compound number below statement level
func (s *state) constant() mdwast.Node {
	tok := s.next()
	if tok.Kind != TokenNumber || s.depth == 0 || !s.nameFollows() {
		return literal(tok)
	}

	units := map[string]float64{}
	value := tok
	for {
		if !s.nameFollows() {
			units[""] = value.Value.(float64)
			break
		}
		unit := s.next()
		units[unit.Text] = value.Value.(float64)

		next, ok := s.peek(0)
		if !ok || next.Kind != TokenNumber {
			break
		}
		value = s.next()
	}
	return &mdwast.CompoundNumber{Units: units, Pos: tok.Position()}
}

func (s *state) nameFollows() bool {
	next, ok := s.peek(0)
	return ok && next.Kind == TokenIdentifier && !next.IsKeyword()
}

// literal converts a constant token into its node
func literal(tok Token) mdwast.Node {
	switch tok.Kind {
	case TokenNumber:
		return &mdwast.Number{Value: tok.Value.(float64), Raw: tok.Text, Pos: tok.Position()}
	case TokenVerbatim:
		if v, ok := tok.Value.(VerbatimValue); ok {
			return &mdwast.Verbatim{Type: v.Type, Content: v.Content, Pos: tok.Position()}
		}
	}
	text, _ := tok.Value.(string)
	return &mdwast.String{Value: text, Pos: tok.Position()}
}

func keyword(tok Token) mdwast.Node {
	switch tok.Text {
	case "true":
		return &mdwast.Boolean{Value: true, Pos: tok.Position()}
	case "false":
		return &mdwast.Boolean{Value: false, Pos: tok.Position()}
	}
	return &mdwast.Null{Pos: tok.Position()}
}
