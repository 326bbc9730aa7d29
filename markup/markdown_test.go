package markup

import (
	"strings"
	"testing"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

// spanString flattens span content to plain text for assertions.
func spanString(spans []ast.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch t := s.(type) {
		case ast.Text:
			b.WriteString(t.Content)
		case ast.Literal:
			b.WriteString(t.Content)
		case ast.SpanContainer:
			b.WriteString(spanString(t.SpanContent()))
		}
	}
	return b.String()
}

func parseMarkdown(t *testing.T, input, path string) *ast.Document {
	t.Helper()
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), vpath.MustParse(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestMarkdownParser_HeadingsStayFlat(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.
`
	doc := parseMarkdown(t, input, "/doc.md")

	blocks := doc.Content.Content
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d: %#v", len(blocks), blocks)
	}
	h1 := blocks[0].(ast.Header)
	if h1.Level != 1 || spanString(h1.Content) != "Title" {
		t.Errorf("h1 = %+v", h1)
	}
	if got := spanString(blocks[1].(ast.Paragraph).Content); got != "Intro text." {
		t.Errorf("intro = %q", got)
	}
	h2 := blocks[2].(ast.Header)
	if h2.Level != 2 || spanString(h2.Content) != "Section A" {
		t.Errorf("h2 = %+v", h2)
	}

	// Title derivation picks up the level-1 heading.
	if got := spanString(doc.Title()); got != "Title" {
		t.Errorf("document title = %q", got)
	}
}

func TestMarkdownParser_InlineMarkup(t *testing.T) {
	doc := parseMarkdown(t, "some *emphasized* and **strong** and `literal` text", "/doc.md")

	para := doc.Content.Content[0].(ast.Paragraph)
	var kinds []string
	for _, s := range para.Content {
		switch s.(type) {
		case ast.Emphasized:
			kinds = append(kinds, "em")
		case ast.Strong:
			kinds = append(kinds, "strong")
		case ast.Literal:
			kinds = append(kinds, "literal")
		}
	}
	want := []string{"em", "strong", "literal"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if got := spanString(para.Content); got != "some emphasized and strong and literal text" {
		t.Errorf("flattened = %q", got)
	}
}

func TestMarkdownParser_Links(t *testing.T) {
	doc := parseMarkdown(t, "[local](other.md) and [remote](https://example.com)", "/doc.md")

	para := doc.Content.Content[0].(ast.Paragraph)
	var ref ast.LinkReference
	var ext ast.ExternalLink
	var haveRef, haveExt bool
	for _, s := range para.Content {
		switch t := s.(type) {
		case ast.LinkReference:
			ref, haveRef = t, true
		case ast.ExternalLink:
			ext, haveExt = t, true
		}
	}
	if !haveRef || ref.Ref != "other.md" || spanString(ref.Content) != "local" {
		t.Errorf("link reference = %+v (%v)", ref, haveRef)
	}
	if !haveExt || ext.Target != "https://example.com" || spanString(ext.Content) != "remote" {
		t.Errorf("external link = %+v (%v)", ext, haveExt)
	}
}

func TestMarkdownParser_CodeBlockAndLists(t *testing.T) {
	input := "```go\nfunc main() {}\n```\n\n- first\n- second\n\n3. third\n4. fourth\n"
	doc := parseMarkdown(t, input, "/doc.md")

	blocks := doc.Content.Content
	code := blocks[0].(ast.CodeBlock)
	if code.Language != "go" || !strings.Contains(code.Content, "func main()") {
		t.Errorf("code block = %+v", code)
	}

	bullets := blocks[1].(ast.BulletList)
	if len(bullets.Items) != 2 {
		t.Fatalf("bullet items = %d, want 2", len(bullets.Items))
	}
	if got := spanString(bullets.Items[0].Content[0].(ast.Paragraph).Content); got != "first" {
		t.Errorf("first item = %q", got)
	}

	enum := blocks[2].(ast.EnumList)
	if enum.Start != 3 || len(enum.Items) != 2 {
		t.Errorf("enum list = %+v", enum)
	}
}

func TestMarkdownParser_Frontmatter(t *testing.T) {
	input := "---\ntitle: Own Title\nnavigationOrder: [a.md, b.md]\n---\n# Heading\n"
	doc := parseMarkdown(t, input, "/doc.md")

	if got := doc.Config.StringOr("title", ""); got != "Own Title" {
		t.Errorf("title = %q", got)
	}
	order, err := doc.Config.GetStringList("navigationOrder")
	if err != nil || len(order) != 2 || order[0] != "a.md" {
		t.Errorf("navigationOrder = %v (%v)", order, err)
	}
	// The fence lines are gone from the content.
	h := doc.Content.Content[0].(ast.Header)
	if spanString(h.Content) != "Heading" {
		t.Errorf("first block = %+v", h)
	}
}

func TestMarkdownParser_UnterminatedFrontmatter(t *testing.T) {
	p := &MarkdownParser{}
	_, err := p.Parse(strings.NewReader("---\ntitle: x\nno end"), vpath.MustParse("/doc.md"))
	if err == nil || !strings.Contains(err.Error(), "front matter") {
		t.Errorf("expected front matter error, got %v", err)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	doc := parseMarkdown(t, "", "/empty.md")
	if len(doc.Content.Content) != 0 {
		t.Errorf("expected no blocks, got %#v", doc.Content.Content)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a.md", "*markup.MarkdownParser"},
		{"/a.markdown", "*markup.MarkdownParser"},
		{"/a.html", "*markup.HTMLParser"},
		{"/a.txt", "*markup.TextParser"},
	}
	for _, tt := range tests {
		p, err := ForPath(vpath.MustParse(tt.path))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.path, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("%s: parser = %s, want %s", tt.path, got, tt.want)
		}
	}
	if _, err := ForPath(vpath.MustParse("/a.pdf")); err == nil {
		t.Error("expected error for unsupported suffix")
	}
	if !IsTemplate(vpath.MustParse("/default.template")) {
		t.Error("expected template detection by suffix")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *MarkdownParser:
		return "*markup.MarkdownParser"
	case *HTMLParser:
		return "*markup.HTMLParser"
	case *TextParser:
		return "*markup.TextParser"
	default:
		return "unknown"
	}
}
