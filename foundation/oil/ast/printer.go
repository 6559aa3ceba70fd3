// File: printer.go
// Title: oil AST Printer
// Description: Renders nodes back into oil-like text. Operator expressions are
//              fully parenthesized so the tree shape is visible.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial printer

package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// StringVisitor renders nodes as oil-like text
type StringVisitor struct{}

// Print renders a node, "<nil>" for nil
func Print(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Accept(StringVisitor{}).(string)
}

func (n *Identifier) String() string     { return Print(n) }
func (n *Binary) String() string         { return Print(n) }
func (n *Logical) String() string        { return Print(n) }
func (n *Unary) String() string          { return Print(n) }
func (n *Assign) String() string         { return Print(n) }
func (n *Conditional) String() string    { return Print(n) }
func (n *Switch) String() string         { return Print(n) }
func (n *Concat) String() string         { return Print(n) }
func (n *NullCoalescing) String() string { return Print(n) }
func (n *FieldAccess) String() string    { return Print(n) }
func (n *Index) String() string          { return Print(n) }
func (n *Slice) String() string          { return Print(n) }
func (n *SequenceSelect) String() string { return Print(n) }
func (n *Select) String() string         { return Print(n) }
func (n *Object) String() string         { return Print(n) }
func (n *Array) String() string          { return Print(n) }
func (n *CompoundNumber) String() string { return Print(n) }
func (n *Number) String() string         { return Print(n) }
func (n *String) String() string         { return Print(n) }
func (n *Boolean) String() string        { return Print(n) }
func (n *Null) String() string           { return Print(n) }
func (n *RefValue) String() string       { return Print(n) }
func (n *Verbatim) String() string       { return Print(n) }

func (StringVisitor) VisitIdentifier(n *Identifier) interface{} {
	return name(n.Name)
}

func (StringVisitor) VisitBinary(n *Binary) interface{} {
	return fmt.Sprintf("(%s %s %s)", Print(n.Left), n.Op, Print(n.Right))
}

func (StringVisitor) VisitLogical(n *Logical) interface{} {
	return fmt.Sprintf("(%s %s %s)", Print(n.Left), n.Op, Print(n.Right))
}

func (StringVisitor) VisitUnary(n *Unary) interface{} {
	return n.Op + Print(n.Argument)
}

func (StringVisitor) VisitAssign(n *Assign) interface{} {
	return fmt.Sprintf("(%s = %s)", Print(n.Left), Print(n.Right))
}

func (StringVisitor) VisitConditional(n *Conditional) interface{} {
	if n.Negative == nil {
		return fmt.Sprintf("(%s ? %s)", Print(n.Test), Print(n.Positive))
	}
	return fmt.Sprintf("(%s ? %s : %s)", Print(n.Test), Print(n.Positive), Print(n.Negative))
}

func (StringVisitor) VisitSwitch(n *Switch) interface{} {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(Print(n.Test))
	for _, c := range n.Cases {
		fmt.Fprintf(&sb, " ?= %s : %s", Print(c.Value), Print(c.Result))
	}
	if n.Otherwise != nil {
		sb.WriteString(" : ")
		sb.WriteString(Print(n.Otherwise))
	}
	sb.WriteString(")")
	return sb.String()
}

func (StringVisitor) VisitConcat(n *Concat) interface{} {
	return "(" + join(n.Stages, " => ") + ")"
}

func (StringVisitor) VisitNullCoalescing(n *NullCoalescing) interface{} {
	return fmt.Sprintf("(%s ?? %s)", Print(n.Left), Print(n.Right))
}

func (StringVisitor) VisitFieldAccess(n *FieldAccess) interface{} {
	return Print(n.Object) + "." + name(n.Field)
}

func (StringVisitor) VisitIndex(n *Index) interface{} {
	return fmt.Sprintf("%s[%s]", Print(n.Sequence), Print(n.Key))
}

func (StringVisitor) VisitSlice(n *Slice) interface{} {
	start, end := "", ""
	if n.Start != nil {
		start = Print(n.Start)
	}
	if n.End != nil {
		end = Print(n.End)
	}
	return fmt.Sprintf("%s[%s:%s]", Print(n.Sequence), start, end)
}

func (StringVisitor) VisitSequenceSelect(n *SequenceSelect) interface{} {
	var sb strings.Builder
	sb.WriteString(Print(n.Sequence))
	sb.WriteString("[")
	sb.WriteString(name(n.Key))
	if n.Index != "" {
		sb.WriteString(", ")
		sb.WriteString(name(n.Index))
	}
	if n.Condition != nil {
		sb.WriteString(" ? ")
		sb.WriteString(Print(n.Condition))
	}
	if n.Order != nil {
		sb.WriteString(" ~ ")
		sb.WriteString(Print(n.Order))
	}
	if n.Group != nil {
		sb.WriteString(" : ")
		sb.WriteString(Print(n.Group))
	}
	if n.Selection != nil {
		switch {
		case n.Concat:
			sb.WriteString(" => ")
		case n.Traverse:
			sb.WriteString(" ~> ")
		default:
			sb.WriteString(" -> ")
		}
		sb.WriteString(Print(n.Selection))
	}
	sb.WriteString("]")
	return sb.String()
}

func (StringVisitor) VisitSelect(n *Select) interface{} {
	return fmt.Sprintf("(%s -> %s)", name(n.Key), Print(n.Selection))
}

func (StringVisitor) VisitObject(n *Object) interface{} {
	var head []string
	if n.Ref != "" {
		head = append(head, name(n.Ref))
	}
	if n.Type != "" {
		head = append(head, name(n.Type))
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(head, " "))
	if len(n.Init) > 0 {
		sb.WriteString("(" + join(n.Init, ", ") + ")")
	}

	var entries []string
	for _, k := range sortedKeys(n.Fields) {
		entries = append(entries, name(k)+": "+Print(n.Fields[k]))
	}
	if len(n.Items) > 0 {
		entries = append(entries, "["+join(n.Items, ", ")+"]")
	}
	if len(entries) > 0 || len(n.Init) == 0 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("{" + strings.Join(entries, ", ") + "}")
	}
	return sb.String()
}

func (StringVisitor) VisitArray(n *Array) interface{} {
	return "[" + join(n.Elements, ", ") + "]"
}

func (StringVisitor) VisitCompoundNumber(n *CompoundNumber) interface{} {
	units := make([]string, 0, len(n.Units))
	for u := range n.Units {
		if u != "" {
			units = append(units, u)
		}
	}
	sort.Strings(units)

	parts := make([]string, 0, len(n.Units))
	for _, u := range units {
		parts = append(parts, formatNumber(n.Units[u])+name(u))
	}
	if v, ok := n.Units[""]; ok {
		parts = append(parts, formatNumber(v))
	}
	return strings.Join(parts, " ")
}

func (StringVisitor) VisitNumber(n *Number) interface{} {
	if n.Raw != "" {
		return n.Raw
	}
	return formatNumber(n.Value)
}

func (StringVisitor) VisitString(n *String) interface{} {
	return Quote(n.Value)
}

func (StringVisitor) VisitBoolean(n *Boolean) interface{} {
	return strconv.FormatBool(n.Value)
}

func (StringVisitor) VisitNull(n *Null) interface{} {
	return "null"
}

func (StringVisitor) VisitRefValue(n *RefValue) interface{} {
	return name(n.Ref) + " " + Print(n.Value)
}

func (StringVisitor) VisitVerbatim(n *Verbatim) interface{} {
	return "@" + n.Type + "[" + n.Content + "]@"
}

// Quote renders s as a double-quoted oil string
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Print(n)
	}
	return strings.Join(parts, sep)
}

// name renders s as a plain identifier when possible, else enclosed in <>
func name(s string) string {
	if isPlainName(s) {
		return s
	}
	return "<" + s + ">"
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || r == '#' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
