package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
	"golang.org/x/net/html"
)

// HTMLParser reads the first <table> of an HTML page. The first row, whether
// it uses <th> or <td>, is the header.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	tbl := findElement(doc, "table")
	if tbl == nil {
		return nil, fmt.Errorf("no <table> element found")
	}

	var records [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != tbl {
					return // Nested tables belong to a cell.
				}
			case "tr":
				var rec []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						rec = append(rec, textContent(c))
					}
				}
				records = append(records, rec)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tbl)

	return table.FromRecords(title, records, 1), nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return textContent(t)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := findElement(c, tag); el != nil {
			return el
		}
	}
	return nil
}
