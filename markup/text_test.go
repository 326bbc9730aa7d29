package markup

import (
	"strings"
	"testing"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

func TestTextParser_Paragraphs(t *testing.T) {
	input := "First paragraph\nstill first.\n\nSecond paragraph.\n\n\nThird.\n"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), vpath.MustParse("/notes.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocks := doc.Content.Content
	if len(blocks) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(blocks))
	}
	first := blocks[0].(ast.Paragraph).Content[0].(ast.Text).Content
	if first != "First paragraph\nstill first." {
		t.Errorf("first paragraph = %q", first)
	}
	third := blocks[2].(ast.Paragraph).Content[0].(ast.Text).Content
	if third != "Third." {
		t.Errorf("third paragraph = %q", third)
	}
}

func TestTextParser_Frontmatter(t *testing.T) {
	input := "---\nauthor: Anna\n---\nBody text.\n"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), vpath.MustParse("/notes.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Config.StringOr("author", ""); got != "Anna" {
		t.Errorf("author = %q, want Anna", got)
	}
	if len(doc.Content.Content) != 1 {
		t.Fatalf("blocks = %#v", doc.Content.Content)
	}
}

func TestTextParser_Empty(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), vpath.MustParse("/empty.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Content.Content) != 0 {
		t.Errorf("expected no blocks, got %#v", doc.Content.Content)
	}
}

func TestParseTemplate(t *testing.T) {
	input := "---\nlayout: wide\n---\nHello ${name}!"
	td, err := ParseTemplate(strings.NewReader(input), vpath.MustParse("/default.template"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := td.Config.StringOr("layout", ""); got != "wide" {
		t.Errorf("layout = %q, want wide", got)
	}
	if len(td.Content.Content) != 3 {
		t.Fatalf("template spans = %#v", td.Content.Content)
	}
	ref := td.Content.Content[1].(ast.TemplateContextReference)
	if ref.Ref != "name" || !ref.Required {
		t.Errorf("reference = %+v", ref)
	}
}
