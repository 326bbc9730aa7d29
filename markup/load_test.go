package markup

import (
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docweave/ast"
)

func TestLoadTree(t *testing.T) {
	fsys := fstest.MapFS{
		"config.yaml":            {Data: []byte("project: demo\n")},
		"cover.md":               {Data: []byte("# Cover\n")},
		"default.template":       {Data: []byte("${document.content}")},
		"logo.png":               {Data: []byte{0x89}},
		"guide/config.yaml":      {Data: []byte("navigationOrder: [usage.md, intro.md]\n")},
		"guide/index.md":         {Data: []byte("# Guide\n")},
		"guide/intro.md":         {Data: []byte("# Intro\n")},
		"guide/usage.md":         {Data: []byte("# Usage\n")},
		"guide/assets/style.css": {Data: []byte("body{}")},
	}

	root, err := LoadTree(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if root.CoverDocument == nil || root.CoverDocument.Path.String() != "/cover.md" {
		t.Errorf("cover = %+v", root.CoverDocument)
	}
	if got := root.Tree.Config.StringOr("project", ""); got != "demo" {
		t.Errorf("root config project = %q, want demo", got)
	}
	if len(root.Tree.Templates) != 1 || root.Tree.SelectTemplate("default.template") == nil {
		t.Errorf("templates = %+v", root.Tree.Templates)
	}

	if len(root.StaticDocuments) != 2 {
		t.Fatalf("static documents = %v", root.StaticDocuments)
	}
	if root.StaticDocuments[1].String() != "/logo.png" {
		t.Errorf("statics = %v", root.StaticDocuments)
	}

	var guide *ast.DocumentTree
	for _, item := range root.Tree.Content {
		if sub, ok := item.(*ast.DocumentTree); ok && sub.Path.Name() == "guide" {
			guide = sub
		}
	}
	if guide == nil {
		t.Fatalf("guide subtree missing: %+v", root.Tree.Content)
	}
	if guide.TitleDocument == nil || guide.TitleDocument.Path.Basename() != "index" {
		t.Errorf("guide title document = %+v", guide.TitleDocument)
	}
	order, err := guide.Config.GetStringList("navigationOrder")
	if err != nil || len(order) != 2 || order[0] != "usage.md" {
		t.Errorf("navigationOrder = %v (%v)", order, err)
	}

	docs := root.AllDocuments()
	if len(docs) != 4 {
		t.Errorf("documents = %d, want cover, index, intro, usage", len(docs))
	}
	if err := root.Tree.ValidateNames(); err != nil {
		t.Errorf("names: %v", err)
	}
}

func TestLoadTree_ParseErrorNamesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.md": {Data: []byte("---\ntitle: [unterminated\n")},
	}
	if _, err := LoadTree(fsys); err == nil {
		t.Fatal("expected error for broken front matter")
	}
}
