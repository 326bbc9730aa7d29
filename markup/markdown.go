package markup

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

// MarkdownParser handles Markdown files using goldmark. Headings stay
// flat; folding them into sections is a build-phase rewrite, not a parser
// concern.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, path vpath.Path) (*ast.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, body, err := splitFrontmatter(src, path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var blocks []ast.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b := convertBlock(n, body); b != nil {
			blocks = append(blocks, b)
		}
	}

	return &ast.Document{
		Path:    path,
		Content: ast.RootElement{Content: blocks},
		Config:  cfg,
	}, nil
}

func convertBlock(n gast.Node, src []byte) ast.Block {
	switch node := n.(type) {
	case *gast.Heading:
		return ast.Header{Level: node.Level, Content: convertSpans(node, src)}
	case *gast.Paragraph, *gast.TextBlock:
		return ast.Paragraph{Content: convertSpans(n, src)}
	case *gast.FencedCodeBlock:
		return ast.CodeBlock{
			Language: string(node.Language(src)),
			Content:  blockLines(node, src),
		}
	case *gast.CodeBlock:
		return ast.CodeBlock{Content: blockLines(node, src)}
	case *gast.Blockquote:
		var content []ast.Block
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if b := convertBlock(c, src); b != nil {
				content = append(content, b)
			}
		}
		return ast.QuotedBlock{Content: content}
	case *gast.List:
		items := convertListItems(node, src)
		if node.IsOrdered() {
			return ast.EnumList{Items: items, Start: node.Start}
		}
		return ast.BulletList{Items: items}
	case *gast.ThematicBreak:
		return ast.Rule{}
	case *gast.HTMLBlock:
		// Raw HTML passes through renderers untouched; the element model
		// has no node for it.
		return nil
	default:
		if spans := convertSpans(n, src); len(spans) > 0 {
			return ast.Paragraph{Content: spans}
		}
		return nil
	}
}

func convertListItems(list *gast.List, src []byte) []ast.ListItem {
	var items []ast.ListItem
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		var content []ast.Block
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if b := convertBlock(c, src); b != nil {
				content = append(content, b)
			}
		}
		items = append(items, ast.ListItem{Content: content})
	}
	return items
}

func convertSpans(n gast.Node, src []byte) []ast.Span {
	var spans []ast.Span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := convertSpan(c, src); s != nil {
			spans = append(spans, s)
		}
	}
	return spans
}

func convertSpan(n gast.Node, src []byte) ast.Span {
	switch node := n.(type) {
	case *gast.Text:
		content := string(node.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			content += " "
		}
		return ast.Text{Content: content}
	case *gast.String:
		return ast.Text{Content: string(node.Value)}
	case *gast.Emphasis:
		if node.Level >= 2 {
			return ast.Strong{Content: convertSpans(node, src)}
		}
		return ast.Emphasized{Content: convertSpans(node, src)}
	case *gast.CodeSpan:
		return ast.Literal{Content: spanText(node, src)}
	case *gast.Link:
		dest := string(node.Destination)
		content := convertSpans(node, src)
		if isExternalTarget(dest) {
			return ast.ExternalLink{Content: content, Target: dest, Title: string(node.Title)}
		}
		// Internal targets stay unresolved until the whole tree is
		// indexed during the resolve phase.
		return ast.LinkReference{Content: content, Ref: dest, Source: dest}
	case *gast.AutoLink:
		url := string(node.URL(src))
		return ast.ExternalLink{Content: []ast.Span{ast.Text{Content: url}}, Target: url}
	case *gast.Image:
		return ast.Image{
			Target: string(node.Destination),
			Alt:    spanText(node, src),
			Title:  string(node.Title),
		}
	case *gast.RawHTML:
		return nil
	default:
		if text := spanText(n, src); text != "" {
			return ast.Text{Content: text}
		}
		return nil
	}
}

func isExternalTarget(dest string) bool {
	return strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:")
}

func blockLines(n gast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

// spanText flattens the text content of a node and its inline children.
func spanText(n gast.Node, src []byte) string {
	var buf bytes.Buffer
	if t, ok := n.(*gast.Text); ok {
		buf.Write(t.Value(src))
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.WriteString(spanText(c, src))
	}
	return buf.String()
}
