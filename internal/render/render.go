// Package render formats parse results, token listings and diagnostics for
// terminals and files.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
)

// Output formats
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatOil   = "oil"
	FormatTable = "table"
)

// Value renders an interchange value as JSON or YAML. indent 0 gives
// compact JSON; YAML always indents, with 2 as the minimum.
func Value(v interface{}, format string, indent int) (string, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return buf.String(), nil

	case FormatYAML:
		if indent < 2 {
			indent = 2
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	return "", unsupported(format)
}

// Document renders a statement list
func Document(nodes []mdwast.Node, format string, indent int) (string, error) {
	if format == FormatOil {
		var sb strings.Builder
		for _, n := range nodes {
			sb.WriteString(mdwast.Print(n))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}
	return Value(mdwast.EncodeAll(nodes), format, indent)
}

// Expression renders a single expression; nil renders as null
func Expression(node mdwast.Node, format string, indent int) (string, error) {
	if format == FormatOil {
		if node == nil {
			return "\n", nil
		}
		return mdwast.Print(node) + "\n", nil
	}
	return Value(mdwast.Encode(node), format, indent)
}

// Tokens renders a token listing as a table, JSON or YAML
func Tokens(tokens []mdwparser.Token, format string, indent int) (string, error) {
	if format != FormatTable {
		return Value(tokenValues(tokens), format, indent)
	}

	rows := make([][]string, len(tokens))
	for i, tok := range tokens {
		rows[i] = []string{
			strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.Column),
			strconv.Itoa(tok.Offset),
			tok.Kind.String(),
			tok.Text,
			valueText(tok),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("POS", "OFFSET", "KIND", "TEXT", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
	return t.Render() + "\n", nil
}

func tokenValues(tokens []mdwparser.Token) []interface{} {
	out := make([]interface{}, len(tokens))
	for i, tok := range tokens {
		m := map[string]interface{}{
			"offset": tok.Offset,
			"line":   tok.Line,
			"column": tok.Column,
			"text":   tok.Text,
			"kind":   tok.Kind.String(),
		}
		switch v := tok.Value.(type) {
		case float64, string:
			m["value"] = v
		case mdwparser.VerbatimValue:
			m["value"] = map[string]interface{}{"type": v.Type, "content": v.Content}
		}
		if tok.Delimited {
			m["delimited"] = true
		}
		out[i] = m
	}
	return out
}

func valueText(tok mdwparser.Token) string {
	switch v := tok.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	case mdwparser.VerbatimValue:
		if v.Type == "" {
			return strconv.Quote(v.Content)
		}
		return v.Type + ":" + strconv.Quote(v.Content)
	}
	if tok.Delimited {
		return "<" + tok.Text + ">"
	}
	return ""
}

// Diagnostic renders err against the source text: a located headline, the
// offending line and a caret under the reported column. name labels the
// source, usually a file name.
func Diagnostic(name, text string, err error) string {
	if err == nil {
		return ""
	}

	code := mdwerror.GetCode(err)
	line, column, _, located := mdwparser.Position(err)

	var sb strings.Builder
	location := name
	if located {
		location = fmt.Sprintf("%s:%d:%d", name, line, column)
	}
	sb.WriteString(LocationStyle.Render(location + ":"))
	sb.WriteString(" ")
	sb.WriteString(ErrorStyle.Render("error"))
	sb.WriteString(" ")
	sb.WriteString(CodeStyle.Render("[" + string(code) + "]"))
	sb.WriteString(" ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	if located {
		lines := strings.Split(text, "\n")
		if line >= 1 && line <= len(lines) {
			src := strings.TrimRight(lines[line-1], "\r")
			sb.WriteString("  ")
			sb.WriteString(src)
			sb.WriteString("\n  ")
			sb.WriteString(caretPadding(src, column))
			sb.WriteString(CaretStyle.Render("^"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// caretPadding keeps tabs so the caret lines up under the reported column
func caretPadding(src string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range src {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
		i++
	}
	for ; i < column; i++ {
		sb.WriteRune(' ')
	}
	return sb.String()
}

func unsupported(format string) error {
	return mdwerror.Newf("unsupported output format %q", format).
		WithCode(mdwerror.CodeInvalidInput)
}
