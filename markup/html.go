package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, path vpath.Path) (*ast.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", path, err)
	}

	var blocks []ast.Block
	if title := findTitle(doc); title != "" {
		blocks = append(blocks, ast.Title{Content: []ast.Span{ast.Text{Content: title}}})
	}

	scope := findBody(doc)
	if scope == nil {
		scope = doc
	}
	blocks = append(blocks, htmlBlocks(scope)...)

	return &ast.Document{
		Path:    path,
		Content: ast.RootElement{Content: blocks},
	}, nil
}

func htmlBlocks(n *html.Node) []ast.Block {
	var blocks []ast.Block
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		blocks = append(blocks, htmlBlock(c)...)
	}
	return blocks
}

// htmlBlock converts one element into block content. Containers without a
// block meaning of their own recurse transparently.
func htmlBlock(n *html.Node) []ast.Block {
	if n.Type != html.ElementNode {
		return nil
	}
	if level := headingLevel(n.Data); level > 0 {
		return []ast.Block{ast.Header{Level: level, Content: htmlSpans(n), Opts: htmlOptions(n)}}
	}
	switch n.Data {
	case "script", "style", "nav", "footer", "header":
		return nil
	case "p":
		return []ast.Block{ast.Paragraph{Content: htmlSpans(n), Opts: htmlOptions(n)}}
	case "pre":
		return []ast.Block{ast.CodeBlock{Content: textContent(n)}}
	case "blockquote":
		content := htmlBlocks(n)
		if content == nil {
			content = []ast.Block{ast.Paragraph{Content: htmlSpans(n)}}
		}
		return []ast.Block{ast.QuotedBlock{Content: content}}
	case "ul":
		return []ast.Block{ast.BulletList{Items: htmlListItems(n), Opts: htmlOptions(n)}}
	case "ol":
		return []ast.Block{ast.EnumList{Items: htmlListItems(n), Start: 1, Opts: htmlOptions(n)}}
	case "table":
		return []ast.Block{htmlTable(n)}
	case "hr":
		return []ast.Block{ast.Rule{}}
	default:
		return htmlBlocks(n)
	}
}

func htmlListItems(n *html.Node) []ast.ListItem {
	var items []ast.ListItem
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		content := htmlBlocks(c)
		if content == nil {
			content = []ast.Block{ast.Paragraph{Content: htmlSpans(c)}}
		}
		items = append(items, ast.ListItem{Content: content})
	}
	return items
}

func htmlTable(n *html.Node) ast.Table {
	table := ast.Table{Opts: htmlOptions(n)}
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, head bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead":
				walk(c, true)
			case "tbody", "tfoot":
				walk(c, false)
			case "tr":
				row := htmlRow(c)
				if head {
					table.Head = append(table.Head, row)
				} else {
					table.Body = append(table.Body, row)
				}
			}
		}
	}
	walk(n, false)
	return table
}

func htmlRow(tr *html.Node) ast.Row {
	var row ast.Row
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data == "td" || c.Data == "th" {
			cell := ast.Cell{Content: htmlBlocks(c)}
			if cell.Content == nil {
				cell.Content = []ast.Block{ast.Paragraph{Content: htmlSpans(c)}}
			}
			row.Cells = append(row.Cells, cell)
		}
	}
	return row
}

func htmlSpans(n *html.Node) []ast.Span {
	var spans []ast.Span
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := htmlSpan(c); s != nil {
			spans = append(spans, s)
		}
	}
	return spans
}

func htmlSpan(n *html.Node) ast.Span {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return ast.Text{Content: n.Data}
	case html.ElementNode:
		switch n.Data {
		case "em", "i":
			return ast.Emphasized{Content: htmlSpans(n)}
		case "strong", "b":
			return ast.Strong{Content: htmlSpans(n)}
		case "code":
			return ast.Literal{Content: textContent(n)}
		case "a":
			href := attrValue(n, "href")
			content := htmlSpans(n)
			if href == "" {
				return ast.SpanSequence{Content: content}
			}
			if isExternalTarget(href) {
				return ast.ExternalLink{Content: content, Target: href}
			}
			return ast.LinkReference{Content: content, Ref: href, Source: href}
		case "img":
			return ast.Image{Target: attrValue(n, "src"), Alt: attrValue(n, "alt")}
		case "br":
			return ast.Text{Content: " "}
		default:
			if spans := htmlSpans(n); len(spans) > 0 {
				return ast.SpanSequence{Content: spans}
			}
			return nil
		}
	default:
		return nil
	}
}

// htmlOptions lifts the id and class attributes into element options.
func htmlOptions(n *html.Node) ast.Options {
	opts := ast.Options{ID: attrValue(n, "id")}
	if classes := strings.Fields(attrValue(n, "class")); len(classes) > 0 {
		opts.Styles = classes
	}
	return opts
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
