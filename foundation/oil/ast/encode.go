// File: encode.go
// Title: oil Interchange Encoding
// Description: Converts AST nodes into the interchange form consumed by hosts:
//              nested map[string]any / []any values with "!exp" discriminators,
//              encodable as JSON, YAML or protobuf Struct without further work.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial interchange encoder
// - 2026-10-19 v0.1.1: Non-finite numbers encode as null

package ast

import "math"

// Interchange discriminator values stored under the "!exp" key
const (
	ExpIdentifier     = "i"
	ExpBinary         = "b"
	ExpUnary          = "u"
	ExpAssign         = "="
	ExpConditional    = "?:"
	ExpSwitch         = "?="
	ExpConcat         = "c"
	ExpNullCoalescing = "??"
	ExpFieldAccess    = "f"
	ExpIndex          = "@"
	ExpSlice          = "@:"
	ExpSequenceSelect = "s"
	ExpSelect         = "->"
)

// EncodeVisitor produces the interchange form
type EncodeVisitor struct{}

// Encode converts a node into its interchange value. The result only contains
// map[string]interface{}, []interface{}, float64, string, bool and nil.
// Non-finite numbers encode as nil.
func Encode(n Node) interface{} {
	if n == nil {
		return nil
	}
	return n.Accept(EncodeVisitor{})
}

// EncodeAll encodes a statement list
func EncodeAll(nodes []Node) []interface{} {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = Encode(n)
	}
	return out
}

func exp(kind string) map[string]interface{} {
	return map[string]interface{}{"!exp": kind}
}

func (EncodeVisitor) VisitIdentifier(n *Identifier) interface{} {
	m := exp(ExpIdentifier)
	m["identifier"] = n.Name
	return m
}

func (EncodeVisitor) VisitBinary(n *Binary) interface{} {
	m := exp(ExpBinary)
	m["operator"] = n.Op
	m["left"] = Encode(n.Left)
	m["right"] = Encode(n.Right)
	return m
}

func (EncodeVisitor) VisitLogical(n *Logical) interface{} {
	m := exp(n.Op)
	m["left"] = Encode(n.Left)
	m["right"] = Encode(n.Right)
	return m
}

func (EncodeVisitor) VisitUnary(n *Unary) interface{} {
	m := exp(ExpUnary)
	m["operator"] = n.Op
	m["argument"] = Encode(n.Argument)
	return m
}

func (EncodeVisitor) VisitAssign(n *Assign) interface{} {
	m := exp(ExpAssign)
	m["left"] = Encode(n.Left)
	m["right"] = Encode(n.Right)
	return m
}

func (EncodeVisitor) VisitConditional(n *Conditional) interface{} {
	m := exp(ExpConditional)
	m["expression"] = Encode(n.Test)
	m["positive"] = Encode(n.Positive)
	if n.Negative != nil {
		m["negative"] = Encode(n.Negative)
	}
	return m
}

func (EncodeVisitor) VisitSwitch(n *Switch) interface{} {
	m := exp(ExpSwitch)
	m["expression"] = Encode(n.Test)
	options := make([]interface{}, len(n.Cases))
	for i, c := range n.Cases {
		options[i] = map[string]interface{}{
			"value":  Encode(c.Value),
			"result": Encode(c.Result),
		}
	}
	m["options"] = options
	if n.Otherwise != nil {
		m["otherwise"] = Encode(n.Otherwise)
	}
	return m
}

func (EncodeVisitor) VisitConcat(n *Concat) interface{} {
	m := exp(ExpConcat)
	m["sequences"] = EncodeAll(n.Stages)
	return m
}

func (EncodeVisitor) VisitNullCoalescing(n *NullCoalescing) interface{} {
	m := exp(ExpNullCoalescing)
	m["left"] = Encode(n.Left)
	m["right"] = Encode(n.Right)
	return m
}

func (EncodeVisitor) VisitFieldAccess(n *FieldAccess) interface{} {
	m := exp(ExpFieldAccess)
	m["object"] = Encode(n.Object)
	m["field"] = n.Field
	return m
}

func (EncodeVisitor) VisitIndex(n *Index) interface{} {
	m := exp(ExpIndex)
	m["sequence"] = Encode(n.Sequence)
	m["key"] = Encode(n.Key)
	return m
}

func (EncodeVisitor) VisitSlice(n *Slice) interface{} {
	m := exp(ExpSlice)
	m["sequence"] = Encode(n.Sequence)
	m["start"] = Encode(n.Start)
	m["end"] = Encode(n.End)
	return m
}

func (EncodeVisitor) VisitSequenceSelect(n *SequenceSelect) interface{} {
	m := exp(ExpSequenceSelect)
	m["sequence"] = Encode(n.Sequence)
	m["key"] = n.Key
	if n.Index != "" {
		m["index"] = n.Index
	}
	if n.Condition != nil {
		m["condition"] = Encode(n.Condition)
	}
	if n.Order != nil {
		m["order"] = Encode(n.Order)
	}
	if n.Group != nil {
		m["group"] = Encode(n.Group)
	}
	if n.Selection != nil {
		m["selection"] = Encode(n.Selection)
	}
	if n.Concat {
		m["concat"] = true
	}
	if n.Traverse {
		m["traverse"] = true
	}
	return m
}

func (EncodeVisitor) VisitSelect(n *Select) interface{} {
	m := exp(ExpSelect)
	m["key"] = n.Key
	m["selection"] = Encode(n.Selection)
	return m
}

func (EncodeVisitor) VisitObject(n *Object) interface{} {
	m := make(map[string]interface{}, len(n.Fields)+4)
	for k, v := range n.Fields {
		m[k] = Encode(v)
	}
	if n.Type != "" {
		m["!type"] = n.Type
	}
	if n.Ref != "" {
		m["!ref"] = n.Ref
	}
	if len(n.Init) > 0 {
		m["!init"] = EncodeAll(n.Init)
	}
	if len(n.Items) > 0 {
		m["!items"] = EncodeAll(n.Items)
	}
	return m
}

func (EncodeVisitor) VisitArray(n *Array) interface{} {
	return EncodeAll(n.Elements)
}

func (EncodeVisitor) VisitCompoundNumber(n *CompoundNumber) interface{} {
	m := make(map[string]interface{}, len(n.Units))
	for u, v := range n.Units {
		m[u] = number(v)
	}
	return m
}

func (EncodeVisitor) VisitNumber(n *Number) interface{} {
	return number(n.Value)
}

func number(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}

func (EncodeVisitor) VisitString(n *String) interface{} {
	return n.Value
}

func (EncodeVisitor) VisitBoolean(n *Boolean) interface{} {
	return n.Value
}

func (EncodeVisitor) VisitNull(n *Null) interface{} {
	return nil
}

func (EncodeVisitor) VisitRefValue(n *RefValue) interface{} {
	return map[string]interface{}{
		"!ref":   n.Ref,
		"!value": Encode(n.Value),
	}
}

func (EncodeVisitor) VisitVerbatim(n *Verbatim) interface{} {
	return map[string]interface{}{
		"!type":    n.Type,
		"!content": n.Content,
	}
}
