package render

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	mdwparser "github.com/msto63/oil/foundation/oil/parser"
)

func TestValue(t *testing.T) {
	v := []interface{}{map[string]interface{}{"!exp": "i", "identifier": "a<b"}}

	tests := []struct {
		name    string
		format  string
		indent  int
		wantErr bool
		check   func(t *testing.T, out string)
	}{
		{
			name:   "compact json",
			format: FormatJSON,
			check: func(t *testing.T, out string) {
				if out != `[{"!exp":"i","identifier":"a<b"}]`+"\n" {
					t.Errorf("out = %q", out)
				}
			},
		},
		{
			name:   "indented json",
			format: FormatJSON,
			indent: 4,
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "\n        \"!exp\": \"i\"") {
					t.Errorf("out = %q", out)
				}
			},
		},
		{
			name:   "yaml",
			format: FormatYAML,
			check: func(t *testing.T, out string) {
				var back []map[string]string
				if err := yaml.Unmarshal([]byte(out), &back); err != nil {
					t.Fatalf("yaml.Unmarshal() error = %v", err)
				}
				if len(back) != 1 || back[0]["!exp"] != "i" || back[0]["identifier"] != "a<b" {
					t.Errorf("back = %v", back)
				}
			},
		},
		{name: "unsupported", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Value(v, tt.format, tt.indent)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Value() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	nodes := mdwparser.Parse("eight 8; a + b", mdwparser.Range{})
	if len(nodes) != 2 {
		t.Fatalf("Parse() = %v", nodes)
	}

	out, err := Document(nodes, FormatJSON, 0)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded[0]["!ref"] != "eight" || decoded[1]["!exp"] != "b" {
		t.Errorf("decoded = %v", decoded)
	}

	out, err = Document(nodes, FormatOil, 0)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 2 {
		t.Errorf("oil output = %q, want two lines", out)
	}
}

func TestExpression(t *testing.T) {
	out, err := Expression(nil, FormatJSON, 0)
	if err != nil || out != "null\n" {
		t.Errorf("Expression(nil) = %q, %v", out, err)
	}

	node := mdwparser.ParseOne("x", mdwparser.Range{})
	out, err = Expression(node, FormatOil, 0)
	if err != nil || out != "x\n" {
		t.Errorf("Expression(x) = %q, %v", out, err)
	}

	node = mdwparser.ParseOne("1e999", mdwparser.Range{})
	if node == nil {
		t.Fatal("ParseOne(1e999) = nil")
	}
	out, err = Expression(node, FormatJSON, 0)
	if err != nil || out != "null\n" {
		t.Errorf("Expression(1e999) = %q, %v", out, err)
	}
}

func TestTokens(t *testing.T) {
	tokens, err := mdwparser.Lex(`<a b> 1.5 "s"`)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}

	out, err := Tokens(tokens, FormatTable, 0)
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}
	for _, want := range []string{"KIND", "identifier", "<a b>", "1.5", `"s"`, "1:7"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	out, err = Tokens(tokens, FormatJSON, 0)
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(decoded) != 3 || decoded[0]["delimited"] != true || decoded[1]["value"] != 1.5 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestDiagnostic(t *testing.T) {
	text := "a = 1 +\n  )"
	res := mdwparser.ParseDetailed(text, mdwparser.Range{})
	if res.Err == nil {
		t.Fatal("expected a parse error")
	}

	out := Diagnostic("<input>", text, res.Err)
	for _, want := range []string{"<input>:2:3:", "[NOT_A_PRIMARY_EXPRESSION]", "\n    ^"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostic missing %q:\n%s", want, out)
		}
	}

	res = mdwparser.ParseDetailed("box {", mdwparser.Range{})
	out = Diagnostic("f.oil", "box {", res.Err)
	if !strings.HasPrefix(out, "f.oil:") || strings.Contains(out, "^") {
		t.Errorf("end of input diagnostic = %q", out)
	}

	if Diagnostic("x", "", nil) != "" {
		t.Error("nil error should render empty")
	}
}

func TestCaretPadding(t *testing.T) {
	tests := []struct {
		src    string
		column int
		want   string
	}{
		{"abc", 1, ""},
		{"abc", 3, "  "},
		{"\tx", 2, "\t"},
		{"ä b", 3, "  "},
		{"", 3, "  "},
	}

	for _, tt := range tests {
		if got := caretPadding(tt.src, tt.column); got != tt.want {
			t.Errorf("caretPadding(%q, %d) = %q, want %q", tt.src, tt.column, got, tt.want)
		}
	}
}
