// File: expr.go
// Title: oil Expression Grammar
// Description: One function per precedence level, from assignment down to
//              unary expressions.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial precedence chain

package parser

import (
	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

// expression parses a full expression
func (s *state) expression() (mdwast.Node, error) {
	s.exprStart = s.pos
	return s.assignment()
}

// assignment: concat [= assignment]; the target shape is checked after parsing
func (s *state) assignment() (mdwast.Node, error) {
	left, err := s.concat()
	if err != nil {
		return nil, err
	}

	op, ok := s.expect("=")
	if !ok {
		return left, nil
	}
	switch left.(type) {
	case *mdwast.Identifier, *mdwast.FieldAccess, *mdwast.Index:
	default:
		return nil, failAt(op, mdwerror.CodeInvalidAssignmentTarget, "invalid assignment target "+left.String())
	}

	right, err := s.assignment()
	if err != nil {
		return nil, err
	}
	return &mdwast.Assign{Left: left, Right: right, Pos: left.Position()}, nil
}

// concat: switch {=> switch}
func (s *state) concat() (mdwast.Node, error) {
	first, err := s.switchExpr()
	if err != nil {
		return nil, err
	}
	if !s.is("=>") {
		return first, nil
	}

	stages := []mdwast.Node{first}
	for {
		if _, ok := s.expect("=>"); !ok {
			break
		}
		stage, err := s.switchExpr()
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return &mdwast.Concat{Stages: stages, Pos: first.Position()}, nil
}

// switchExpr: conditional {?= conditional : conditional} [: conditional]
func (s *state) switchExpr() (mdwast.Node, error) {
	test, err := s.conditional()
	if err != nil {
		return nil, err
	}
	if !s.is("?=") {
		return test, nil
	}

	sw := &mdwast.Switch{Test: test, Pos: test.Position()}
	for {
		if _, ok := s.expect("?="); !ok {
			break
		}
		value, err := s.conditional()
		if err != nil {
			return nil, err
		}
		if _, err := s.consume(":"); err != nil {
			return nil, err
		}
		result, err := s.conditional()
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, mdwast.SwitchCase{Value: value, Result: result})
	}

	if _, ok := s.expect(":"); ok {
		otherwise, err := s.conditional()
		if err != nil {
			return nil, err
		}
		sw.Otherwise = otherwise
	}
	return sw, nil
}

// conditional: logicalOr [? expression [: expression]]
func (s *state) conditional() (mdwast.Node, error) {
	test, err := s.logicalOr()
	if err != nil {
		return nil, err
	}
	if _, ok := s.expect("?"); !ok {
		return test, nil
	}

	positive, err := s.expression()
	if err != nil {
		return nil, err
	}
	cond := &mdwast.Conditional{Test: test, Positive: positive, Pos: test.Position()}
	if _, ok := s.expect(":"); ok {
		if cond.Negative, err = s.expression(); err != nil {
			return nil, err
		}
	}
	return cond, nil
}

func (s *state) logicalOr() (mdwast.Node, error) {
	return s.logical(s.logicalAnd, "||")
}

func (s *state) logicalAnd() (mdwast.Node, error) {
	return s.logical(s.equality, "&&")
}

func (s *state) logical(operand func() (mdwast.Node, error), op string) (mdwast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := s.expect(op); !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &mdwast.Logical{Op: op, Left: left, Right: right, Pos: left.Position()}
	}
}

func (s *state) equality() (mdwast.Node, error) {
	return s.binary(s.relational, "==", "!=")
}

func (s *state) relational() (mdwast.Node, error) {
	return s.binary(s.shift, "<", ">", "<=", ">=")
}

func (s *state) shift() (mdwast.Node, error) {
	return s.binary(s.additive, "<<", ">>")
}

func (s *state) additive() (mdwast.Node, error) {
	return s.binary(s.multiplicative, "+", "-")
}

func (s *state) multiplicative() (mdwast.Node, error) {
	return s.binary(s.nullCoalescing, "*", "/", "%")
}

// binary parses a left-associative level
func (s *state) binary(operand func() (mdwast.Node, error), ops ...string) (mdwast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.expect(ops...)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &mdwast.Binary{Op: op.Text, Left: left, Right: right, Pos: left.Position()}
	}
}

// nullCoalescing: unary [?? nullCoalescing]
func (s *state) nullCoalescing() (mdwast.Node, error) {
	left, err := s.unary()
	if err != nil {
		return nil, err
	}
	if _, ok := s.expect("??"); !ok {
		return left, nil
	}
	right, err := s.nullCoalescing()
	if err != nil {
		return nil, err
	}
	return &mdwast.NullCoalescing{Left: left, Right: right, Pos: left.Position()}, nil
}

// unary: [+ - !] unary | primary
func (s *state) unary() (mdwast.Node, error) {
	op, ok := s.expect("+", "-", "!")
	if !ok {
		return s.primary()
	}
	arg, err := s.unary()
	if err != nil {
		return nil, err
	}
	return &mdwast.Unary{Op: op.Text, Argument: arg, Pos: op.Position()}, nil
}
