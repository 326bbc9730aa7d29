package transform

import (
	"testing"

	"github.com/dgallion1/docweave/ast"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Getting Started!", "getting-started"},
		{"  API   Reference  ", "api-reference"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode & Symbols?", "n-code-symbols"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func header(level int, text string) ast.Header {
	return ast.Header{Level: level, Content: []ast.Span{ast.Text{Content: text}}}
}

func para(text string) ast.Paragraph {
	return ast.Paragraph{Content: []ast.Span{ast.Text{Content: text}}}
}

func TestBuildSections_Nesting(t *testing.T) {
	doc := &ast.Document{Content: ast.RootElement{Content: []ast.Block{
		para("intro"),
		header(1, "First"),
		para("a"),
		header(2, "Inner"),
		para("b"),
		header(1, "Second"),
		para("c"),
	}}}

	out, err := BuildSections(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks := out.Content.Content
	if len(blocks) != 3 {
		t.Fatalf("top-level blocks = %d, want 3", len(blocks))
	}
	if _, ok := blocks[0].(ast.Paragraph); !ok {
		t.Errorf("leading paragraph replaced by %T", blocks[0])
	}

	first := blocks[1].(ast.Section)
	if len(first.Content) != 2 {
		t.Fatalf("first section blocks = %d, want paragraph and subsection", len(first.Content))
	}
	inner := first.Content[1].(ast.Section)
	if inner.Header.Level != 2 || inner.Header.Opts.ID != "inner" {
		t.Errorf("inner header = %+v", inner.Header)
	}
	if len(inner.Content) != 1 {
		t.Errorf("inner section blocks = %d, want 1", len(inner.Content))
	}

	second := blocks[2].(ast.Section)
	if second.Header.Opts.ID != "second" {
		t.Errorf("second section id = %q", second.Header.Opts.ID)
	}

	// Input stays untouched.
	if _, ok := doc.Content.Content[1].(ast.Header); !ok {
		t.Errorf("input document was modified: %T", doc.Content.Content[1])
	}
}

func TestBuildSections_KeepsExplicitID(t *testing.T) {
	h := header(1, "Custom")
	h.Opts.ID = "given"
	doc := &ast.Document{Content: ast.RootElement{Content: []ast.Block{h, para("x")}}}

	out, err := BuildSections(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec := out.Content.Content[0].(ast.Section)
	if sec.Header.Opts.ID != "given" {
		t.Errorf("id = %q, want given", sec.Header.Opts.ID)
	}
}

func TestBuildSections_SkipLevelStillNests(t *testing.T) {
	doc := &ast.Document{Content: ast.RootElement{Content: []ast.Block{
		header(1, "Top"),
		header(3, "Deep"),
		para("d"),
		header(2, "Middle"),
	}}}

	out, err := BuildSections(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := out.Content.Content[0].(ast.Section)
	if len(top.Content) != 2 {
		t.Fatalf("top section blocks = %d, want deep and middle sections", len(top.Content))
	}
	deep := top.Content[0].(ast.Section)
	if deep.Header.Level != 3 || len(deep.Content) != 1 {
		t.Errorf("deep section = %+v", deep)
	}
	middle := top.Content[1].(ast.Section)
	if middle.Header.Level != 2 {
		t.Errorf("middle section = %+v", middle)
	}
}
