// File: parser_test.go
// Title: oil Parser Tests
// Description: Tests for the precedence chain, primaries, selectors, object
//              literals, entry points and diagnostics.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test implementation

package parser

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
)

func quietParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(Options{Logger: mdwlog.Discard()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func render(nodes []mdwast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = mdwast.Print(n)
	}
	return strings.Join(parts, "; ")
}

func mustParse(t *testing.T, input string) []mdwast.Node {
	t.Helper()
	res := quietParser(t).ParseDetailed(input, Range{})
	if res.Err != nil {
		t.Fatalf("ParseDetailed(%q) error = %v", input, res.Err)
	}
	return res.Expressions
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"left associative", "1 - 2 - 3", "((1 - 2) - 3)"},
		{"assignment right associative", "a = b = c", "(a = (b = c))"},
		{"null coalescing right associative", "a ?? b ?? c", "(a ?? (b ?? c))"},
		{"null coalescing binds tighter than multiply", "a * b ?? c", "(a * (b ?? c))"},
		{"logical", "a || b && c", "(a || (b && c))"},
		{"equality over relational", "a == b < c", "(a == (b < c))"},
		{"shift", "a << 1 + 2", "(a << (1 + 2))"},
		{"unary", "-a * !b", "(-a * !b)"},
		{"nested unary", "!-a", "!-a"},
		{"parentheses", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"conditional", "a ? b : c", "(a ? b : c)"},
		{"conditional without negative", "a ? b", "(a ? b)"},
		{"assignment in conditional branch", "c ? x = 1 : y", "(c ? (x = 1) : y)"},
		{"switch", `x ?= 1 : "one" ?= 2 : "two" : "many"`, `(x ?= 1 : "one" ?= 2 : "two" : "many")`},
		{"switch without otherwise", "x ?= 1 : a", "(x ?= 1 : a)"},
		{"concat", "a => b => c", "(a => b => c)"},
		{"concat of switch", "a => b ?= 1 : 2", "(a => (b ?= 1 : 2))"},
		{"assign coalesce", "x = y ?? 0", "(x = (y ?? 0))"},
		{"field access", "a.b.c", "a.b.c"},
		{"assign to field", "a.b = 1", "(a.b = 1)"},
		{"assign to index", "a[0] = 1", "(a[0] = 1)"},
		{"enclosed identifier", "<my field> + 1", "(<my field> + 1)"},
		{"keywords", "null ?? false", "(null ?? false)"},
		{"string", `"a\tb"`, `"a\tb"`},
		{"statements", "a; b, c", "a; b; c"},
		{"number at statement level stays scalar", "1 k", "1; k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(mustParse(t, tt.input)); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSelectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"index", "list[0]", "list[0]"},
		{"slice", "list[1:3]", "list[1:3]"},
		{"open end slice", "list[1:]", "list[1:]"},
		{"open start slice", "list[:2]", "list[:2]"},
		{"full slice", "list[:]", "list[:]"},
		{"filter with selection", `states[x ? x.id == "id1" -> x]`, `states[x ? (x.id == "id1") -> x]`},
		{"order", "states[x ~ -x.time]", "states[x ~ -x.time]"},
		{"index binding with concat", "states[x, i ? i > 0 => x.name]", "states[x, i ? (i > 0) => x.name]"},
		{"traverse", "tree[n ~> n.children]", "tree[n ~> n.children]"},
		{"order and group", "rows[r ~ r.day : r.month -> r]", "rows[r ~ r.day : r.month -> r]"},
		{"conditional key", "rows[r ? r.ok : r.fallback]", "rows[(r ? r.ok : r.fallback)]"},
		{"filter only", "rows[r ? r.ok]", "rows[r ? r.ok]"},
		{"chained postfix", "a[0].b[c -> c.d]", "a[0].b[c -> c.d]"},
		{"select shorthand", "box {field: x -> x.value}", "box {field: (x -> x.value)}"},
		{
			"select inside condition",
			"object { field: collection[x ? x == (something -> x)] }",
			"object {field: collection[x ? (x == (something -> x))]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(mustParse(t, tt.input)); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty object", "box {}", "box {}"},
		{"initializer", "box(1, 2)", "box(1, 2)"},
		{"empty initializer", "child()", "child {}"},
		{"reference and type", "ref box(1) {a: 1}", "ref box(1) {a: 1}"},
		{"reference without body", "ref box", "ref box {}"},
		{"trailing comma", "box {a: 1,}", "box {a: 1}"},
		{"nested field object", "box { inner { x: 1 } }", "box {inner: {x: 1}}"},
		{"nested field initializer", "box { inner(1) }", "box {inner: (1)}"},
		{
			"fields and items",
			`box { a: 1, b: "text", c: [2,1,3], [child()] }`,
			`box {a: 1, b: "text", c: [2, 1, 3], [child {}]}`,
		},
		{
			"bare object",
			`{number: 8, text: "eight", obj: {a: 1, b: "2" }}`,
			`{number: 8, obj: {a: 1, b: "2"}, text: "eight"}`,
		},
		{"array", "[1, 2, 3,]", "[1, 2, 3]"},
		{"empty array", "[]", "[]"},
		{"compound number", "box {f: 1.5 k 20gr 16n}", "box {f: 20gr 1.5k 16n}"},
		{"compound with bare number", "[2k 5]", "[2k 5]"},
		{"single unit", "[1 k]", "[1k]"},
		{"mixed array", "[1, true, \"s\"]", "[1, true, \"s\"]"},
		{"reference values", `eight 8 text "text" box {}`, `eight 8; text "text"; box {}`},
		{"reference keyword", "flag true", "flag true"},
		{"top level does not chain", "ref1 box(1,2) ref2 box {}", "ref1 box(1, 2); ref2 box {}"},
		{"field chains", "{ f: ref1 box(1,2) ref2 box {} }", "{f: ref1 box(1, 2) {[ref2 box {}]}}"},
		{"typed verbatim", "@ json [ {} ]@", "@json[ {} ]@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(mustParse(t, tt.input)); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestObjectShape(t *testing.T) {
	nodes := mustParse(t, `box { a: 1, b: "text", c: [2,1,3], [child()] }`)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	box, ok := nodes[0].(*mdwast.Object)
	if !ok {
		t.Fatalf("node = %T, want *ast.Object", nodes[0])
	}
	if box.Type != "box" || box.Ref != "" {
		t.Errorf("head = %q %q", box.Ref, box.Type)
	}
	if a, ok := box.Fields["a"].(*mdwast.Number); !ok || a.Value != 1 {
		t.Errorf("a = %v", box.Fields["a"])
	}
	if c, ok := box.Fields["c"].(*mdwast.Array); !ok || len(c.Elements) != 3 {
		t.Errorf("c = %v", box.Fields["c"])
	}
	if len(box.Items) != 1 {
		t.Fatalf("items = %v", box.Items)
	}
	if child, ok := box.Items[0].(*mdwast.Object); !ok || child.Type != "child" {
		t.Errorf("item = %v", box.Items[0])
	}
}

func TestRefValueAndCompound(t *testing.T) {
	nodes := mustParse(t, "eight 8")
	ref, ok := nodes[0].(*mdwast.RefValue)
	if !ok {
		t.Fatalf("node = %T, want *ast.RefValue", nodes[0])
	}
	if n, ok := ref.Value.(*mdwast.Number); ref.Ref != "eight" || !ok || n.Value != 8 {
		t.Errorf("ref value = %v", ref)
	}

	nodes = mustParse(t, "{ f: 1.5 k 20gr 16n }")
	obj := nodes[0].(*mdwast.Object)
	compound, ok := obj.Fields["f"].(*mdwast.CompoundNumber)
	if !ok {
		t.Fatalf("f = %T, want *ast.CompoundNumber", obj.Fields["f"])
	}
	want := map[string]float64{"k": 1.5, "gr": 20, "n": 16}
	if !reflect.DeepEqual(compound.Units, want) {
		t.Errorf("units = %v, want %v", compound.Units, want)
	}
}

func TestSequenceSelectShape(t *testing.T) {
	nodes := mustParse(t, `states[x ? x.id == "id1" -> x]`)
	sel, ok := nodes[0].(*mdwast.SequenceSelect)
	if !ok {
		t.Fatalf("node = %T, want *ast.SequenceSelect", nodes[0])
	}
	if sel.Key != "x" {
		t.Errorf("Key = %q", sel.Key)
	}
	if seq, ok := sel.Sequence.(*mdwast.Identifier); !ok || seq.Name != "states" {
		t.Errorf("Sequence = %v", sel.Sequence)
	}
	if _, ok := sel.Condition.(*mdwast.Binary); !ok {
		t.Errorf("Condition = %T", sel.Condition)
	}
	if _, ok := sel.Selection.(*mdwast.Identifier); !ok {
		t.Errorf("Selection = %T", sel.Selection)
	}

	nodes = mustParse(t, "object { field: collection[x ? x == (something -> x)] }")
	field := nodes[0].(*mdwast.Object).Fields["field"].(*mdwast.SequenceSelect)
	if field.Selection != nil {
		t.Errorf("Selection = %v, want nil", field.Selection)
	}
	cond := field.Condition.(*mdwast.Binary)
	if left, ok := cond.Left.(*mdwast.Identifier); !ok || left.Name != "x" {
		t.Errorf("condition left = %v", cond.Left)
	}
	if _, ok := cond.Right.(*mdwast.Select); !ok {
		t.Errorf("condition right = %T, want *ast.Select", cond.Right)
	}
}

func TestNodePositions(t *testing.T) {
	nodes := mustParse(t, "a;\n  b + c")
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	pos := nodes[1].Position()
	if pos.Line != 2 || pos.Column != 3 || pos.Offset != 5 {
		t.Errorf("Position() = %+v", pos)
	}
	bin := nodes[1].(*mdwast.Binary)
	if bin.Right.Position().Column != 7 {
		t.Errorf("right operand column = %d", bin.Right.Position().Column)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  mdwerror.Code
	}{
		{"unclosed object", "box {", mdwerror.CodeUnexpectedToken},
		{"missing operand", "1 +", mdwerror.CodeNotAPrimaryExpression},
		{"stray closer", ")", mdwerror.CodeNotAPrimaryExpression},
		{"select not at expression start", "a + x -> y", mdwerror.CodeNotAPrimaryExpression},
		{"assign to constant", "1 = 2", mdwerror.CodeInvalidAssignmentTarget},
		{"assign to call", "box() = 2", mdwerror.CodeInvalidAssignmentTarget},
		{"numeric field", "box { 1: 2 }", mdwerror.CodeInvalidField},
		{"field without value", "box { a 1 }", mdwerror.CodeUnexpectedToken},
		{"switch missing colon", "x ?= 1 2", mdwerror.CodeUnexpectedToken},
		{"unclosed paren", "(a", mdwerror.CodeUnexpectedToken},
		{"unclosed selector", "a[", mdwerror.CodeNotAPrimaryExpression},
		{"field name required", "a.+", mdwerror.CodeUnexpectedToken},
		{"array without comma", "[1 2]", mdwerror.CodeUnexpectedToken},
		{"lexical error", `"abc`, mdwerror.CodeUnterminatedLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := quietParser(t).ParseDetailed(tt.input, Range{})
			if res.Err == nil {
				t.Fatalf("ParseDetailed(%q) = %s, want error", tt.input, render(res.Expressions))
			}
			if res.Err.Code() != tt.code {
				t.Errorf("Code = %v, want %v (%v)", res.Err.Code(), tt.code, res.Err)
			}
			if res.Expressions == nil || len(res.Expressions) != 0 {
				t.Errorf("Expressions = %v, want empty", res.Expressions)
			}
			if res.End != 0 {
				t.Errorf("End = %d, want 0", res.End)
			}
		})
	}
}

func TestParseErrorDetails(t *testing.T) {
	res := quietParser(t).ParseDetailed("a +\n  )", Range{})
	if res.Err == nil {
		t.Fatal("expected error")
	}
	details := res.Err.Details()
	if details["line"] != 2 || details["column"] != 3 || details["offset"] != 6 {
		t.Errorf("details = %v", details)
	}
	if res.Err.Operation() != "parse" {
		t.Errorf("Operation() = %q", res.Err.Operation())
	}
	line, column, _, ok := Position(res.Err)
	if !ok || line != 2 || column != 3 {
		t.Errorf("Position() = %d:%d %v", line, column, ok)
	}

	res = quietParser(t).ParseDetailed("box {", Range{})
	if !strings.Contains(res.Err.Error(), "at end of input") {
		t.Errorf("Error() = %q", res.Err.Error())
	}
	if _, _, _, ok := Position(res.Err); ok {
		t.Error("Position() located an end-of-input error")
	}

	rebuilt := mdwerror.New("unexpected token").
		WithCode(mdwerror.CodeUnexpectedToken).
		WithDetail("line", 4).
		WithDetail("column", 9).
		WithDetail("offset", 30)
	if line, column, offset, ok := Position(rebuilt); !ok || line != 4 || column != 9 || offset != 30 {
		t.Errorf("Position(details) = %d:%d@%d %v", line, column, offset, ok)
	}
}

func TestParseDetailedEnd(t *testing.T) {
	p := quietParser(t)

	tests := []struct {
		name    string
		input   string
		r       Range
		want    string
		wantEnd int
	}{
		{"whole input", "a + b", Range{}, "(a + b)", 5},
		{"stop character", "a + b; c", Range{Stop: ";"}, "(a + b)", 5},
		{"closing brace stop", "x} rest", Range{Stop: "}"}, "x", 1},
		{"offset start", "ignored; a", At(9), "a", 10},
		{"bounded end", "a b c", Range{Start: 2, End: 3}, "b", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.ParseDetailed(tt.input, tt.r)
			if res.Err != nil {
				t.Fatalf("error = %v", res.Err)
			}
			if got := render(res.Expressions); got != tt.want {
				t.Errorf("Expressions = %s, want %s", got, tt.want)
			}
			if res.End != tt.wantEnd {
				t.Errorf("End = %d, want %d", res.End, tt.wantEnd)
			}
		})
	}

	failed := p.ParseDetailed("x; 1 +", At(3))
	if failed.Err == nil || failed.End != 3 {
		t.Errorf("failed parse End = %d, Err = %v", failed.End, failed.Err)
	}
}

func TestParseOneDetailed(t *testing.T) {
	p := quietParser(t)

	res := p.ParseOneDetailed("a + b; c", Range{})
	if res.Err != nil {
		t.Fatalf("error = %v", res.Err)
	}
	if mdwast.Print(res.Expression) != "(a + b)" || res.End != 5 {
		t.Errorf("ParseOneDetailed() = %v, End %d", res.Expression, res.End)
	}

	empty := p.ParseOneDetailed("   ", Range{})
	if empty.Expression != nil || empty.Err != nil || empty.End != 3 {
		t.Errorf("empty input = %+v", empty)
	}

	if p.ParseOne("1 +", Range{}) != nil {
		t.Error("ParseOne should return nil on failure")
	}
	if got := p.Parse("box {", Range{}); len(got) != 0 {
		t.Errorf("Parse() = %v, want empty", got)
	}
}

func TestParseTokens(t *testing.T) {
	tokens, err := Lex("a = 1; b")
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	nodes, err := quietParser(t).ParseTokens(tokens)
	if err != nil {
		t.Fatalf("ParseTokens() error = %v", err)
	}
	if got := render(nodes); got != "(a = 1); b" {
		t.Errorf("ParseTokens() = %s", got)
	}
}

func TestParserOptions(t *testing.T) {
	if _, err := New(Options{MaxInputLength: -1}); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("New() error = %v, want InvalidConfig", err)
	}

	p, err := New(Options{Logger: mdwlog.Discard(), MaxInputLength: 4})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res := p.ParseDetailed("12345", Range{})
	if res.Err == nil || res.Err.Code() != mdwerror.CodeInputTooLarge {
		t.Errorf("Err = %v, want InputTooLarge", res.Err)
	}

	res = p.ParseDetailed("abc", Range{Start: 5})
	if res.Err == nil || res.Err.Code() != mdwerror.CodeInvalidInput {
		t.Errorf("Err = %v, want InvalidInput", res.Err)
	}
}

func TestParseFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelDebug,
		Format: mdwlog.FormatJSON,
		Output: &buf,
	})
	p, err := New(Options{Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p.Parse("box { 1: 2 }", Range{})

	var entry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]interface{}
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if e["error_code"] != nil {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("no error entry in %s", buf.String())
	}
	if entry["error_code"] != "INVALID_FIELD" || entry["level"] != "INFO" {
		t.Errorf("entry = %v", entry)
	}
	if entry["component"] != "oil-parser" || entry["error_line"] != float64(1) {
		t.Errorf("entry = %v", entry)
	}
}
