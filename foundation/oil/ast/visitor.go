// File: visitor.go
// Title: oil AST Visitor Pattern Implementation
// Description: Implements the visitor pattern for traversing oil AST nodes
//              together with generic child enumeration and walking.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial visitor pattern implementation
// - 2026-10-19 v0.2.0: Visitor over the oil node set, Walk and Children

package ast

import "sort"

// Visitor handles every node kind. Adding a node kind breaks every
// implementation at compile time.
type Visitor interface {
	VisitIdentifier(n *Identifier) interface{}
	VisitBinary(n *Binary) interface{}
	VisitLogical(n *Logical) interface{}
	VisitUnary(n *Unary) interface{}
	VisitAssign(n *Assign) interface{}
	VisitConditional(n *Conditional) interface{}
	VisitSwitch(n *Switch) interface{}
	VisitConcat(n *Concat) interface{}
	VisitNullCoalescing(n *NullCoalescing) interface{}
	VisitFieldAccess(n *FieldAccess) interface{}
	VisitIndex(n *Index) interface{}
	VisitSlice(n *Slice) interface{}
	VisitSequenceSelect(n *SequenceSelect) interface{}
	VisitSelect(n *Select) interface{}
	VisitObject(n *Object) interface{}
	VisitArray(n *Array) interface{}
	VisitCompoundNumber(n *CompoundNumber) interface{}
	VisitNumber(n *Number) interface{}
	VisitString(n *String) interface{}
	VisitBoolean(n *Boolean) interface{}
	VisitNull(n *Null) interface{}
	VisitRefValue(n *RefValue) interface{}
	VisitVerbatim(n *Verbatim) interface{}
}

func (n *Identifier) Accept(v Visitor) interface{}     { return v.VisitIdentifier(n) }
func (n *Binary) Accept(v Visitor) interface{}         { return v.VisitBinary(n) }
func (n *Logical) Accept(v Visitor) interface{}        { return v.VisitLogical(n) }
func (n *Unary) Accept(v Visitor) interface{}          { return v.VisitUnary(n) }
func (n *Assign) Accept(v Visitor) interface{}         { return v.VisitAssign(n) }
func (n *Conditional) Accept(v Visitor) interface{}    { return v.VisitConditional(n) }
func (n *Switch) Accept(v Visitor) interface{}         { return v.VisitSwitch(n) }
func (n *Concat) Accept(v Visitor) interface{}         { return v.VisitConcat(n) }
func (n *NullCoalescing) Accept(v Visitor) interface{} { return v.VisitNullCoalescing(n) }
func (n *FieldAccess) Accept(v Visitor) interface{}    { return v.VisitFieldAccess(n) }
func (n *Index) Accept(v Visitor) interface{}          { return v.VisitIndex(n) }
func (n *Slice) Accept(v Visitor) interface{}          { return v.VisitSlice(n) }
func (n *SequenceSelect) Accept(v Visitor) interface{} { return v.VisitSequenceSelect(n) }
func (n *Select) Accept(v Visitor) interface{}         { return v.VisitSelect(n) }
func (n *Object) Accept(v Visitor) interface{}         { return v.VisitObject(n) }
func (n *Array) Accept(v Visitor) interface{}          { return v.VisitArray(n) }
func (n *CompoundNumber) Accept(v Visitor) interface{} { return v.VisitCompoundNumber(n) }
func (n *Number) Accept(v Visitor) interface{}         { return v.VisitNumber(n) }
func (n *String) Accept(v Visitor) interface{}         { return v.VisitString(n) }
func (n *Boolean) Accept(v Visitor) interface{}        { return v.VisitBoolean(n) }
func (n *Null) Accept(v Visitor) interface{}           { return v.VisitNull(n) }
func (n *RefValue) Accept(v Visitor) interface{}       { return v.VisitRefValue(n) }
func (n *Verbatim) Accept(v Visitor) interface{}       { return v.VisitVerbatim(n) }

// Children returns the direct child nodes of n in source order. Object
// fields come in key order.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Binary:
		add(n.Left, n.Right)
	case *Logical:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Argument)
	case *Assign:
		add(n.Left, n.Right)
	case *Conditional:
		add(n.Test, n.Positive, n.Negative)
	case *Switch:
		add(n.Test)
		for _, c := range n.Cases {
			add(c.Value, c.Result)
		}
		add(n.Otherwise)
	case *Concat:
		add(n.Stages...)
	case *NullCoalescing:
		add(n.Left, n.Right)
	case *FieldAccess:
		add(n.Object)
	case *Index:
		add(n.Sequence, n.Key)
	case *Slice:
		add(n.Sequence, n.Start, n.End)
	case *SequenceSelect:
		add(n.Sequence, n.Condition, n.Order, n.Group, n.Selection)
	case *Select:
		add(n.Selection)
	case *Object:
		add(n.Init...)
		for _, k := range sortedKeys(n.Fields) {
			add(n.Fields[k])
		}
		add(n.Items...)
	case *Array:
		add(n.Elements...)
	case *RefValue:
		add(n.Value)
	}
	return out
}

// Walk traverses n depth-first. fn is called before the children of a node;
// returning false skips them.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Stats summarizes the size of a tree
type Stats struct {
	Nodes int
	Depth int
	Kinds map[Kind]int
}

// Measure counts nodes, maximum depth and nodes per kind over the given roots
func Measure(roots ...Node) Stats {
	stats := Stats{Kinds: make(map[Kind]int)}
	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		stats.Nodes++
		stats.Kinds[n.Kind()]++
		if depth > stats.Depth {
			stats.Depth = depth
		}
		for _, c := range Children(n) {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		if r != nil {
			visit(r, 1)
		}
	}
	return stats
}

func sortedKeys(m map[string]Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
