package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/cursor"
	"github.com/dgallion1/docweave/vpath"
)

func mustTemplate(t *testing.T, path, source string) *ast.TemplateDocument {
	t.Helper()
	root, err := Parse(source)
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	return &ast.TemplateDocument{Path: vpath.MustParse(path), Content: root}
}

func TestApplyTemplate_EmbedsDocumentContent(t *testing.T) {
	doc := &ast.Document{
		Path: vpath.MustParse("/guide.md"),
		Content: ast.RootElement{Content: []ast.Block{
			ast.Paragraph{Content: []ast.Span{ast.Text{Content: "hello"}}},
		}},
		Config: mustConfig(t, "title: Guide\n"),
	}
	dc := cursor.NewDetachedDocument(doc)
	td := mustTemplate(t, "/default.template", "== ${title} ==\n${document.content}")

	out, err := ApplyTemplate(td, dc, Default())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Path != doc.Path {
		t.Errorf("path = %s, want %s", out.Path, doc.Path)
	}
	troot, ok := out.Content.Content[0].(ast.TemplateRoot)
	if !ok {
		t.Fatalf("content = %#v, want a template root block", out.Content.Content[0])
	}
	if got := troot.Content[1].(ast.TemplateString).Content; got != "Guide" {
		t.Errorf("title substitution = %q, want Guide", got)
	}
	embedded := troot.Content[3].(ast.EmbeddedRoot)
	if len(embedded.Content) != 1 {
		t.Fatalf("embedded content = %#v", embedded)
	}
	if got := embedded.Content[0].(ast.Paragraph).Content[0].(ast.Text).Content; got != "hello" {
		t.Errorf("embedded paragraph = %q, want hello", got)
	}
	// The input document is untouched.
	if _, ok := doc.Content.Content[0].(ast.Paragraph); !ok {
		t.Error("source document mutated")
	}
}

func TestApplyTemplate_CollectsAllMissingReferences(t *testing.T) {
	doc := &ast.Document{Path: vpath.MustParse("/d.md")}
	dc := cursor.NewDetachedDocument(doc)
	td := mustTemplate(t, "/default.template", "${missing.one} and ${missing.two} and ${?missing.three}")

	_, err := ApplyTemplate(td, dc, Default())
	if err == nil {
		t.Fatal("expected an error for missing required references")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing.one") || !strings.Contains(msg, "missing.two") {
		t.Errorf("error must name all misses: %s", msg)
	}
	if strings.Contains(msg, "missing.three") {
		t.Errorf("optional references must not error: %s", msg)
	}
}

func TestApplyTemplate_SingleMissTypedError(t *testing.T) {
	doc := &ast.Document{Path: vpath.MustParse("/d.md")}
	dc := cursor.NewDetachedDocument(doc)
	td := mustTemplate(t, "/default.template", "${missing.one}")

	_, err := ApplyTemplate(td, dc, Default())
	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %T: %v", err, err)
	}
	if cfgErr.Key != "missing.one" {
		t.Errorf("key = %q, want missing.one", cfgErr.Key)
	}
}

func TestApplyTemplate_TemplateConfigFallsBack(t *testing.T) {
	doc := &ast.Document{
		Path:   vpath.MustParse("/d.md"),
		Config: mustConfig(t, "title: Own\n"),
	}
	dc := cursor.NewDetachedDocument(doc)
	td := mustTemplate(t, "/default.template", "x")
	td.Config = mustConfig(t, "title: Template\nlayout: wide\n")

	out, err := ApplyTemplate(td, dc, Default())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := out.Config.StringOr("title", ""); got != "Own" {
		t.Errorf("document config must win: title = %q", got)
	}
	if got := out.Config.StringOr("layout", ""); got != "wide" {
		t.Errorf("template config must fall back: layout = %q", got)
	}
}

func TestTemplateFor_NearestLevelWins(t *testing.T) {
	doc := &ast.Document{Path: vpath.MustParse("/sub/d.md")}
	inner := mustTemplate(t, "/sub/default.template", "inner")
	outer := mustTemplate(t, "/default.template", "outer")
	sub := &ast.DocumentTree{
		Path:      vpath.MustParse("/sub"),
		Content:   []ast.TreeItem{doc},
		Templates: []*ast.TemplateDocument{inner},
	}
	root := &ast.TreeRoot{Tree: &ast.DocumentTree{
		Path:      vpath.Root,
		Content:   []ast.TreeItem{sub},
		Templates: []*ast.TemplateDocument{outer},
	}}
	rc := cursor.NewRoot(root)
	dc := rc.Tree().AllDocuments()[0]

	if td := TemplateFor(dc, "default.template"); td != inner {
		t.Errorf("got %v, want the nearest template", td)
	}

	// Without a local template the lookup climbs to the root level.
	sub.Templates = nil
	rc = cursor.NewRoot(root)
	dc = rc.Tree().AllDocuments()[0]
	if td := TemplateFor(dc, "default.template"); td != outer {
		t.Errorf("got %v, want the root template", td)
	}
	if td := TemplateFor(dc, "other.template"); td != nil {
		t.Errorf("unknown template name must return nil, got %v", td)
	}
}
