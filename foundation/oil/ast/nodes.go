// File: nodes.go
// Title: oil AST Node Definitions
// Description: Defines all AST node types for oil notation: operator
//              expressions, selectors, object literals, compound numbers and
//              constants.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST node definitions
// - 2026-10-19 v0.2.0: Closed node set for oil notation

package ast

// Node represents the base interface for all AST nodes
type Node interface {
	// Kind returns the node discriminator
	Kind() Kind

	// Position returns the source position of the first token of the node
	Position() Position

	// String returns an oil-like rendering of the node
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	node()
}

// Position represents a position in the source text
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based, in runes)
	Offset int // Byte offset (0-based, absolute in the caller's text)
}

// Kind discriminates node shapes
type Kind int

const (
	KindIdentifier Kind = iota
	KindBinary
	KindLogical
	KindUnary
	KindAssign
	KindConditional
	KindSwitch
	KindConcat
	KindNullCoalescing
	KindFieldAccess
	KindIndex
	KindSlice
	KindSequenceSelect
	KindSelect
	KindObject
	KindArray
	KindCompoundNumber
	KindNumber
	KindString
	KindBoolean
	KindNull
	KindRefValue
	KindVerbatim
)

var kindNames = [...]string{
	KindIdentifier:     "identifier",
	KindBinary:         "binary",
	KindLogical:        "logical",
	KindUnary:          "unary",
	KindAssign:         "assign",
	KindConditional:    "conditional",
	KindSwitch:         "switch",
	KindConcat:         "concat",
	KindNullCoalescing: "null-coalescing",
	KindFieldAccess:    "field-access",
	KindIndex:          "index",
	KindSlice:          "slice",
	KindSequenceSelect: "sequence-select",
	KindSelect:         "select",
	KindObject:         "object",
	KindArray:          "array",
	KindCompoundNumber: "compound-number",
	KindNumber:         "number",
	KindString:         "string",
	KindBoolean:        "boolean",
	KindNull:           "null",
	KindRefValue:       "ref-value",
	KindVerbatim:       "verbatim",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Identifier is a plain name, including enclosed <...> identifiers
type Identifier struct {
	Name string
	Pos  Position
}

// Binary covers arithmetic, shift, comparison and equality operators
type Binary struct {
	Op    string
	Left  Node
	Right Node
	Pos   Position
}

// Logical is && or ||
type Logical struct {
	Op    string
	Left  Node
	Right Node
	Pos   Position
}

// Unary is a prefix + - or !
type Unary struct {
	Op       string
	Argument Node
	Pos      Position
}

// Assign is left = right. Left is an Identifier, FieldAccess or Index.
type Assign struct {
	Left  Node
	Right Node
	Pos   Position
}

// Conditional is test ? positive [: negative]
type Conditional struct {
	Test     Node
	Positive Node
	Negative Node // nil when absent
	Pos      Position
}

// SwitchCase is one ?= value : result pair
type SwitchCase struct {
	Value  Node
	Result Node
}

// Switch is test ?= v1 : r1 ?= v2 : r2 [: otherwise]
type Switch struct {
	Test      Node
	Cases     []SwitchCase
	Otherwise Node // nil when absent
	Pos       Position
}

// Concat is s1 => s2 => ...
type Concat struct {
	Stages []Node
	Pos    Position
}

// NullCoalescing is left ?? right
type NullCoalescing struct {
	Left  Node
	Right Node
	Pos   Position
}

// FieldAccess is object.field
type FieldAccess struct {
	Object Node
	Field  string
	Pos    Position
}

// Index is sequence[key]
type Index struct {
	Sequence Node
	Key      Node
	Pos      Position
}

// Slice is sequence[start:end]; either bound may be nil
type Slice struct {
	Sequence Node
	Start    Node
	End      Node
	Pos      Position
}

// SequenceSelect is sequence[key[, index] ? condition ~ order : group -> selection].
// Key and Index are only visible inside the clause.
type SequenceSelect struct {
	Sequence  Node
	Key       string
	Index     string // "" when no index name is bound
	Condition Node
	Order     Node
	Group     Node
	Selection Node // nil for filter or sort clauses
	Concat    bool // selection introduced by =>
	Traverse  bool // selection introduced by ~>
	Pos       Position
}

// Select is the key -> selection shorthand
type Select struct {
	Key       string
	Selection Node
	Pos       Position
}

// Object is a (typed, optionally referenced) object literal
type Object struct {
	Type   string // "" for a bare {...}
	Ref    string
	Init   []Node
	Fields map[string]Node
	Items  []Node
	Pos    Position
}

// Array is [e1, e2, ...]
type Array struct {
	Elements []Node
	Pos      Position
}

// CompoundNumber maps unit suffixes to magnitudes; "" holds a trailing bare number
type CompoundNumber struct {
	Units map[string]float64
	Pos   Position
}

// Number is a numeric constant
type Number struct {
	Value float64
	Raw   string
	Pos   Position
}

// String is a decoded string constant, also used for untyped verbatim blocks
type String struct {
	Value string
	Pos   Position
}

// Boolean is true or false
type Boolean struct {
	Value bool
	Pos   Position
}

// Null is the null constant
type Null struct {
	Pos Position
}

// RefValue is a named constant: ref value
type RefValue struct {
	Ref   string
	Value Node
	Pos   Position
}

// Verbatim is a typed verbatim block
type Verbatim struct {
	Type    string
	Content string
	Pos     Position
}

func (*Identifier) node()     {}
func (*Binary) node()         {}
func (*Logical) node()        {}
func (*Unary) node()          {}
func (*Assign) node()         {}
func (*Conditional) node()    {}
func (*Switch) node()         {}
func (*Concat) node()         {}
func (*NullCoalescing) node() {}
func (*FieldAccess) node()    {}
func (*Index) node()          {}
func (*Slice) node()          {}
func (*SequenceSelect) node() {}
func (*Select) node()         {}
func (*Object) node()         {}
func (*Array) node()          {}
func (*CompoundNumber) node() {}
func (*Number) node()         {}
func (*String) node()         {}
func (*Boolean) node()        {}
func (*Null) node()           {}
func (*RefValue) node()       {}
func (*Verbatim) node()       {}

func (*Identifier) Kind() Kind     { return KindIdentifier }
func (*Binary) Kind() Kind         { return KindBinary }
func (*Logical) Kind() Kind        { return KindLogical }
func (*Unary) Kind() Kind          { return KindUnary }
func (*Assign) Kind() Kind         { return KindAssign }
func (*Conditional) Kind() Kind    { return KindConditional }
func (*Switch) Kind() Kind         { return KindSwitch }
func (*Concat) Kind() Kind         { return KindConcat }
func (*NullCoalescing) Kind() Kind { return KindNullCoalescing }
func (*FieldAccess) Kind() Kind    { return KindFieldAccess }
func (*Index) Kind() Kind          { return KindIndex }
func (*Slice) Kind() Kind          { return KindSlice }
func (*SequenceSelect) Kind() Kind { return KindSequenceSelect }
func (*Select) Kind() Kind         { return KindSelect }
func (*Object) Kind() Kind         { return KindObject }
func (*Array) Kind() Kind          { return KindArray }
func (*CompoundNumber) Kind() Kind { return KindCompoundNumber }
func (*Number) Kind() Kind         { return KindNumber }
func (*String) Kind() Kind         { return KindString }
func (*Boolean) Kind() Kind        { return KindBoolean }
func (*Null) Kind() Kind           { return KindNull }
func (*RefValue) Kind() Kind       { return KindRefValue }
func (*Verbatim) Kind() Kind       { return KindVerbatim }

func (n *Identifier) Position() Position     { return n.Pos }
func (n *Binary) Position() Position         { return n.Pos }
func (n *Logical) Position() Position        { return n.Pos }
func (n *Unary) Position() Position          { return n.Pos }
func (n *Assign) Position() Position         { return n.Pos }
func (n *Conditional) Position() Position    { return n.Pos }
func (n *Switch) Position() Position         { return n.Pos }
func (n *Concat) Position() Position         { return n.Pos }
func (n *NullCoalescing) Position() Position { return n.Pos }
func (n *FieldAccess) Position() Position    { return n.Pos }
func (n *Index) Position() Position          { return n.Pos }
func (n *Slice) Position() Position          { return n.Pos }
func (n *SequenceSelect) Position() Position { return n.Pos }
func (n *Select) Position() Position         { return n.Pos }
func (n *Object) Position() Position         { return n.Pos }
func (n *Array) Position() Position          { return n.Pos }
func (n *CompoundNumber) Position() Position { return n.Pos }
func (n *Number) Position() Position         { return n.Pos }
func (n *String) Position() Position         { return n.Pos }
func (n *Boolean) Position() Position        { return n.Pos }
func (n *Null) Position() Position           { return n.Pos }
func (n *RefValue) Position() Position       { return n.Pos }
func (n *Verbatim) Position() Position       { return n.Pos }

// IsConstant reports whether n is a literal constant usable as a RefValue value
func IsConstant(n Node) bool {
	switch n.(type) {
	case *Number, *String, *Boolean, *Null, *Verbatim:
		return true
	default:
		return false
	}
}
