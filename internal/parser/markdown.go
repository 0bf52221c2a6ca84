package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser reads the first pipe table of a Markdown file. Files with
// no table are read as an outline: headings nest by level and paragraphs
// become leaves under the heading they follow.
type MarkdownParser struct {
	Opts Options
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))
	title := baseTitle(filename)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if tbl, ok := n.(*east.Table); ok {
			return table.FromRecords(title, markdownTableRecords(tbl, src), 1), nil
		}
	}

	out := newHeadingRows(title, p.Opts)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.heading(node.Level, extractText(node, src))
		default:
			if t := extractText(n, src); t != "" {
				out.body(t)
			}
		}
	}
	return out.table(), nil
}

func markdownTableRecords(tbl *east.Table, src []byte) [][]string {
	var records [][]string
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		var rec []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			rec = append(rec, extractText(cell, src))
		}
		records = append(records, rec)
	}
	return records
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// such as code blocks carry their text as raw lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
