package transform

import (
	"strings"
	"testing"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/cursor"
	"github.com/dgallion1/docweave/vpath"
)

func docAt(path string, blocks ...ast.Block) *ast.Document {
	p := vpath.MustParse(path)
	return &ast.Document{
		Path:    p,
		Content: ast.RootElement{Content: blocks},
		Config:  config.New(config.Origin{Scope: config.ScopeDocument, Path: p}),
	}
}

func sectionWithID(id string) ast.Section {
	h := header(2, id)
	h.Opts.ID = id
	return ast.Section{Header: h}
}

func testRoot(docs ...*ast.Document) *ast.TreeRoot {
	items := make([]ast.TreeItem, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	return &ast.TreeRoot{Tree: &ast.DocumentTree{
		Path:    vpath.Root,
		Content: items,
		Config:  config.New(config.Origin{Scope: config.ScopeTree, Path: vpath.Root}),
	}}
}

func TestLinkIndex_Resolve(t *testing.T) {
	root := testRoot(
		docAt("/guide/intro.md", sectionWithID("setup")),
		docAt("/guide/usage.md", sectionWithID("examples")),
		docAt("/reference.md"),
	)
	idx := BuildLinkIndex(root)
	from := vpath.MustParse("/guide/intro.md")

	tests := []struct {
		ref      string
		path     string
		fragment string
	}{
		{"usage.md", "/guide/usage.md", ""},
		{"/reference.md", "/reference.md", ""},
		{"usage.md#examples", "/guide/usage.md", "examples"},
		{"#setup", "/guide/intro.md", "setup"},
		{"examples", "/guide/usage.md", "examples"},
	}
	for _, tt := range tests {
		target, err := idx.Resolve(tt.ref, from)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.ref, err)
			continue
		}
		if target.Path.String() != tt.path || target.Fragment != tt.fragment {
			t.Errorf("Resolve(%q) = %+v, want %s#%s", tt.ref, target, tt.path, tt.fragment)
		}
	}
}

func TestLinkIndex_Misses(t *testing.T) {
	root := testRoot(
		docAt("/a.md", sectionWithID("dup")),
		docAt("/b.md", sectionWithID("dup")),
	)
	idx := BuildLinkIndex(root)
	from := vpath.MustParse("/a.md")

	if _, err := idx.Resolve("nowhere.md", from); err == nil {
		t.Error("expected error for missing document")
	}
	_, err := idx.Resolve("#dup", from)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate anchor error = %v", err)
	}
	if _, err := idx.Resolve("", from); err == nil {
		t.Error("expected error for empty reference")
	}
}

func TestLinkRules_RewritesReferences(t *testing.T) {
	link := ast.LinkReference{
		Content: []ast.Span{ast.Text{Content: "usage"}},
		Ref:     "usage.md#examples",
		Source:  "[usage](usage.md#examples)",
	}
	broken := ast.LinkReference{
		Content: []ast.Span{ast.Text{Content: "gone"}},
		Ref:     "gone.md",
		Source:  "[gone](gone.md)",
	}
	doc := docAt("/guide/intro.md", ast.Paragraph{Content: []ast.Span{link, broken}})
	root := testRoot(doc, docAt("/guide/usage.md", sectionWithID("examples")))

	idx := BuildLinkIndex(root)
	dc := cursor.NewRoot(root).Tree().AllDocuments()[0]
	out, err := dc.RewriteTarget(func(dc *cursor.DocumentCursor) (ast.RewriteRules, error) {
		return LinkRules(idx, dc), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := out.Content.Content[0].(ast.Paragraph).Content
	resolved := spans[0].(ast.InternalLink)
	if resolved.Path.String() != "/guide/usage.md" || resolved.Fragment != "examples" {
		t.Errorf("resolved link = %+v", resolved)
	}
	invalid := spans[1].(ast.InvalidSpan)
	if invalid.Fallback != "[gone](gone.md)" || !strings.Contains(invalid.Message, "gone.md") {
		t.Errorf("invalid span = %+v", invalid)
	}
}
