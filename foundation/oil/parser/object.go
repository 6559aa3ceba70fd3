// File: object.go
// Title: oil Object Literals
// Description: Typed object heads, initializer lists, field blocks and
//              implicit chaining of sibling objects below statement level.
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

// object fills a typed object whose head starts at head
func (s *state) object(head Token, typ, ref string) (mdwast.Node, error) {
	obj := &mdwast.Object{
		Type:   typ,
		Ref:    ref,
		Fields: map[string]mdwast.Node{},
		Pos:    head.Position(),
	}
	if err := s.fillObject(obj); err != nil {
		return nil, err
	}

	if s.depth > 0 && len(obj.Items) == 0 && s.nameFollows() {
		child, err := s.chained()
		if err != nil {
			return nil, err
		}
		obj.Items = append(obj.Items, child)
	}
	return obj, nil
}

// chained parses the next sibling object head: type or ref type
func (s *state) chained() (mdwast.Node, error) {
	head := s.next()
	if next, ok := s.peek(0); ok && next.Kind == TokenIdentifier && !next.IsKeyword() {
		s.pos++
		return s.object(head, next.Text, head.Text)
	}
	return s.object(head, head.Text, "")
}

// fillObject parses the optional (init) list and {entries} block
func (s *state) fillObject(obj *mdwast.Object) error {
	if _, ok := s.expect("("); ok {
		s.depth++
		init, err := s.list(")")
		if err != nil {
			return err
		}
		s.depth--
		obj.Init = init
	}

	if _, ok := s.expect("{"); !ok {
		return nil
	}
	s.depth++
	for {
		if _, ok := s.expect("}"); ok {
			break
		}
		if err := s.entry(obj); err != nil {
			return err
		}
		if _, ok := s.expect(","); !ok {
			if _, err := s.consume("}"); err != nil {
				return err
			}
			break
		}
	}
	s.depth--
	return nil
}

// entry parses one [items] or field entry of a brace block
func (s *state) entry(obj *mdwast.Object) error {
	if _, ok := s.expect("["); ok {
		items, err := s.list("]")
		if err != nil {
			return err
		}
		obj.Items = append(obj.Items, items...)
		return nil
	}

	field, ok := s.peek(0)
	if !ok {
		return s.unexpected("}")
	}
	if field.Kind != TokenIdentifier {
		return s.fail(mdwerror.CodeInvalidField, "is not a valid field")
	}
	s.pos++

	switch {
	case s.is(":"):
		s.pos++
		value, err := s.expression()
		if err != nil {
			return err
		}
		obj.Fields[field.Text] = value

	case s.is("{", "("):
		nested := &mdwast.Object{Fields: map[string]mdwast.Node{}, Pos: field.Position()}
		if err := s.fillObject(nested); err != nil {
			return err
		}
		obj.Fields[field.Text] = nested

	default:
		return s.unexpected(":", "{", "(")
	}
	return nil
}
