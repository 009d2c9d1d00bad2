// Package markdown normalizes authored markdown for the two output modes the
// exporter needs: rich inline text kept as markdown, and plain text for
// metadata fields and hint lines where no markup may survive.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Option adjusts how Markdownify prepares a body block.
type Option func(*options)

type options struct {
	htmlTag string
}

// WithHTMLTag wraps the block in the given HTML tag so the target player
// renders it as one block section instead of inline text.
func WithHTMLTag(tag string) Option {
	return func(o *options) {
		o.htmlTag = tag
	}
}

// Markdownify normalizes authored text for inclusion as one body block:
// line endings become LF, trailing whitespace and outer blank lines are
// dropped. The markup itself passes through untouched.
func Markdownify(src string, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))

	if o.htmlTag != "" {
		out = "<" + o.htmlTag + ">\n\n" + out + "\n\n</" + o.htmlTag + ">"
	}
	return out
}

// ToPlainText strips all markdown and HTML markup, returning the readable
// text collapsed onto a single line. Used for metadata fields and hint lines
// that must not contain markup or line breaks.
func ToPlainText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	source := []byte(src)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		case *ast.CodeSpan:
			// Keep the literal code, drop the backticks.
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			writeLines(&buf, n, source)
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return collapseSpace(stripHTML(buf.String()))
}

func writeLines(buf *bytes.Buffer, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
		buf.WriteByte(' ')
	}
}

// stripHTML drops tags from any inline or block HTML that survived the
// markdown walk, keeping only text content.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	tok := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.TextToken:
			buf.Write(tok.Text())
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
