package document

import (
	"strings"
	"unicode"

	"github.com/lixenwraith/eventlog/sanitizer"
)

// YAMLIndent is the indent unit of RenderYAML
const YAMLIndent = "  "

// BracketOptions controls RenderBracketed output
type BracketOptions struct {
	Indent    string // Indent unit, two spaces or a tab
	Multiline bool   // false renders a compact single line
	Separator bool   // Blank line after the closing brace of the top-level document
}

// DefaultBracketOptions returns multiline output with two-space indentation
func DefaultBracketOptions() BracketOptions {
	return BracketOptions{Indent: "  ", Multiline: true}
}

// RenderBracketed renders d as brace-delimited text with quoted keys and values
func (d *Document) RenderBracketed(opts BracketOptions) string {
	var sb strings.Builder
	d.renderBracketed(&sb, opts, 0)
	if opts.Multiline {
		sb.WriteByte('\n')
		if opts.Separator {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (d *Document) renderBracketed(sb *strings.Builder, opts BracketOptions, depth int) {
	indent := func(level int) {
		if opts.Multiline {
			sb.WriteString(strings.Repeat(opts.Indent, level))
		}
	}
	newline := func() {
		if opts.Multiline {
			sb.WriteByte('\n')
		}
	}
	separate := func() {
		sb.WriteByte(',')
		if !opts.Multiline {
			sb.WriteByte(' ')
		}
	}

	indent(depth)
	if d.Name != "" {
		sb.WriteByte('"')
		sb.WriteString(quote(d.Name))
		sb.WriteString(`": `)
	}
	sb.WriteByte('{')
	newline()

	for i, p := range d.props {
		indent(depth + 1)
		sb.WriteByte('"')
		sb.WriteString(quote(p.Key))
		sb.WriteString(`": "`)
		sb.WriteString(quote(p.Value))
		sb.WriteByte('"')
		if i < len(d.props)-1 || len(d.children) > 0 {
			separate()
		}
		newline()
	}

	for i, c := range d.children {
		c.renderBracketed(sb, opts, depth+1)
		if i < len(d.children)-1 {
			separate()
		}
		newline()
	}

	indent(depth)
	sb.WriteByte('}')
}

// RenderYAML renders d as indented "key: \"value\"" lines.
// Named documents print "name:" and indent their contents one more unit.
// Keys and names that are not plain words are double-quoted.
func (d *Document) RenderYAML() string {
	var sb strings.Builder
	d.renderYAML(&sb, 1)
	return sb.String()
}

func (d *Document) renderYAML(sb *strings.Builder, depth int) {
	level := depth - 1
	if d.Name != "" {
		sb.WriteString(strings.Repeat(YAMLIndent, level))
		sb.WriteString(yamlKey(d.Name))
		sb.WriteString(":\n")
		level++
	}

	prefix := strings.Repeat(YAMLIndent, level)
	for _, p := range d.props {
		sb.WriteString(prefix)
		sb.WriteString(yamlKey(p.Key))
		sb.WriteString(`: "`)
		sb.WriteString(quote(p.Value))
		sb.WriteString("\"\n")
	}

	for _, c := range d.children {
		c.renderYAML(sb, level+1)
	}
}

func quote(s string) string {
	return sanitizer.Sanitize(sanitizer.Quoted, s)
}

// yamlKey returns k unchanged when it is a plain scalar of letters, digits,
// inner spaces and "_-./", and a double-quoted scalar otherwise
func yamlKey(k string) string {
	if k == "" || k[0] == ' ' || k[len(k)-1] == ' ' || k[0] == '-' {
		return `"` + quote(k) + `"`
	}
	for _, r := range k {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == ' ', r == '_', r == '-', r == '.', r == '/':
		default:
			return `"` + quote(k) + `"`
		}
	}
	return k
}
