// Package markup converts assistant-authored text into a safe structural
// representation. Only a bounded subset is interpreted — bold and italic
// emphasis, hard line breaks, and bullet list markers — and everything else
// degrades to plain text. The output carries no display concerns; the view
// layer decides how emphasis and bullets are drawn.
//
// User-authored text must never pass through [Parse]; use [Literal], which
// performs no interpretation at all.
package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Span is a run of text with uniform emphasis.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Line is one display line. A Bullet line renders with a leading list
// marker. A line with no spans is a paragraph separator.
type Line struct {
	Bullet bool
	Spans  []Span
}

// Parse interprets the markup subset in assistant text and returns display
// lines. The input is never treated as HTML or any other executable markup.
func Parse(source string) []Line {
	if source == "" {
		return nil
	}
	p := goldmark.DefaultParser()
	doc := p.Parse(text.NewReader([]byte(source)))

	var b builder
	b.walkBlocks(doc, []byte(source))
	return b.done()
}

// Literal wraps user-authored text as unstyled lines without interpreting
// anything beyond the line breaks already present in the text.
func Literal(source string) []Line {
	if source == "" {
		return nil
	}
	raw := strings.Split(source, "\n")
	lines := make([]Line, len(raw))
	for i, l := range raw {
		if l == "" {
			lines[i] = Line{}
			continue
		}
		lines[i] = Line{Spans: []Span{{Text: l}}}
	}
	return lines
}

// builder accumulates lines during the AST walk.
type builder struct {
	lines []Line
	cur   Line
	open  bool // cur has been started, even if still empty
}

func (b *builder) startLine(bullet bool) {
	b.flushLine()
	b.cur = Line{Bullet: bullet}
	b.open = true
}

func (b *builder) flushLine() {
	if !b.open {
		return
	}
	b.lines = append(b.lines, b.cur)
	b.cur = Line{}
	b.open = false
}

func (b *builder) separator() {
	b.flushLine()
	b.lines = append(b.lines, Line{})
}

func (b *builder) span(s Span) {
	if s.Text == "" {
		return
	}
	if !b.open {
		b.startLine(false)
	}
	b.cur.Spans = append(b.cur.Spans, s)
}

func (b *builder) done() []Line {
	b.flushLine()
	// Trim trailing separators left by block spacing.
	for len(b.lines) > 0 && len(b.lines[len(b.lines)-1].Spans) == 0 {
		b.lines = b.lines[:len(b.lines)-1]
	}
	return b.lines
}

func (b *builder) walkBlocks(node ast.Node, source []byte) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		b.renderBlock(c, source)
	}
}

func (b *builder) renderBlock(node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		b.startLine(false)
		b.collectInline(node, source, Span{})
		if node.NextSibling() != nil {
			b.separator()
		}

	case *ast.Heading:
		// Headings are outside the subset; degrade to a bold line.
		b.startLine(false)
		b.collectInline(n, source, Span{Bold: true})
		if n.NextSibling() != nil {
			b.separator()
		}

	case *ast.List:
		b.renderList(n, source)
		if n.NextSibling() != nil {
			b.separator()
		}

	case *ast.FencedCodeBlock:
		b.codeLines(n.Lines(), source)
		if n.NextSibling() != nil {
			b.separator()
		}

	case *ast.CodeBlock:
		b.codeLines(n.Lines(), source)
		if n.NextSibling() != nil {
			b.separator()
		}

	default:
		// Blockquotes and other unrecognized blocks: recurse, plain.
		b.walkBlocks(node, source)
	}
}

func (b *builder) renderList(node *ast.List, source []byte) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		b.startLine(true)
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				b.collectInline(in, source, Span{})
			case *ast.List:
				// Nested lists flatten to sibling bullets.
				b.renderList(in, source)
			default:
				b.renderBlock(ic, source)
			}
		}
	}
	b.flushLine()
}

func (b *builder) codeLines(lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.startLine(false)
		b.span(Span{Text: strings.TrimRight(string(seg.Value(source)), "\n")})
	}
	b.flushLine()
}

// collectInline walks a block's inline children, carrying the emphasis
// accumulated from enclosing nodes.
func (b *builder) collectInline(node ast.Node, source []byte, style Span) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		b.renderInline(c, source, style)
	}
}

func (b *builder) renderInline(node ast.Node, source []byte, style Span) {
	switch n := node.(type) {
	case *ast.Text:
		s := style
		s.Text = string(n.Segment.Value(source))
		b.span(s)
		if n.SoftLineBreak() {
			b.span(Span{Text: " ", Bold: style.Bold, Italic: style.Italic})
		}
		if n.HardLineBreak() {
			b.startLine(false)
		}

	case *ast.String:
		s := style
		s.Text = string(n.Value)
		b.span(s)

	case *ast.Emphasis:
		inner := style
		if n.Level == 1 {
			inner.Italic = true
		} else {
			// Level 2 = bold. Goldmark represents ***both*** as nested
			// Emphasis nodes, so level 3+ is not reachable.
			inner.Bold = true
		}
		b.collectInline(n, source, inner)

	case *ast.CodeSpan:
		// Inline code is outside the subset; keep the text, drop the ticks.
		b.collectInline(n, source, style)

	case *ast.RawHTML:
		// Raw HTML is never rendered structurally; surface it as text.
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			s := style
			s.Text = string(seg.Value(source))
			b.span(s)
		}

	default:
		b.collectInline(node, source, style)
	}
}
