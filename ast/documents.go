package ast

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/styles"
	"github.com/dgallion1/docweave/vpath"
)

// TreePosition is a node's coordinate inside the document tree: a sequence
// of 1-based child indexes from the root. Positions order lexicographically
// with shorter sequences padded, so a parent sorts before its children.
type TreePosition []int

// ForChild returns the position of the i-th (1-based) child.
func (p TreePosition) ForChild(i int) TreePosition {
	out := make(TreePosition, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Compare returns a negative, zero or positive number ordering p against
// other. Differing depths compare as if padded with zeros.
func (p TreePosition) Compare(other TreePosition) int {
	n := max(len(p), len(other))
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(p) {
			a = p[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			return a - b
		}
	}
	return 0
}

func (p TreePosition) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ".")
}

// Document is a single parsed markup document: its content tree, named
// fragments extracted during parsing, its configuration scope and its
// position inside the tree. Rewriting produces new Document values; a
// Document is never mutated in place.
type Document struct {
	Path      vpath.Path
	Content   RootElement
	Fragments map[string]Element
	Config    *config.Config
	Position  TreePosition
}

// Name returns the document's path name.
func (d *Document) Name() string { return d.Path.Name() }

// Title determines the document title: the first Title element of the
// content, else the first level-1 header, else the config key "title",
// else a title-cased form of the path basename.
func (d *Document) Title() []Span {
	for _, b := range d.Content.Content {
		switch t := b.(type) {
		case Title:
			return t.Content
		case Section:
			if t.Header.Level == 1 {
				return t.Header.Content
			}
		case Header:
			if t.Level == 1 {
				return t.Content
			}
		}
	}
	if s, err := d.Config.GetString("title"); err == nil {
		return []Span{Text{Content: s}}
	}
	return []Span{Text{Content: TitleFromName(d.Path.Basename())}}
}

// Sections returns the top-level section structure of the document, used
// for tables of contents.
func (d *Document) Sections() []Section {
	var out []Section
	for _, b := range d.Content.Content {
		if s, ok := b.(Section); ok {
			out = append(out, s)
		}
	}
	return out
}

var titleCaser = cases.Title(language.English)

// TitleFromName derives a human-readable title from a path basename,
// treating dashes and underscores as word separators.
func TitleFromName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCaser.String(name)
}

// TreeItem is a child of a DocumentTree: either a *Document or a nested
// *DocumentTree.
type TreeItem interface {
	ItemPath() vpath.Path
	ItemPosition() TreePosition
}

func (d *Document) ItemPath() vpath.Path           { return d.Path }
func (d *Document) ItemPosition() TreePosition     { return d.Position }
func (t *DocumentTree) ItemPath() vpath.Path       { return t.Path }
func (t *DocumentTree) ItemPosition() TreePosition { return t.Position }

// DocumentTree is a recursive grouping of documents and subtrees, mirroring
// the input directory structure. Child names must be unique per level.
type DocumentTree struct {
	Path          vpath.Path
	Content       []TreeItem
	TitleDocument *Document
	Templates     []*TemplateDocument
	Config        *config.Config
	Position      TreePosition
}

// SelectTemplate finds a template of the given name in this tree level.
func (t *DocumentTree) SelectTemplate(name string) *TemplateDocument {
	for _, td := range t.Templates {
		if td.Path.Name() == name {
			return td
		}
	}
	return nil
}

// ValidateNames checks the unique-child-name invariant recursively,
// aggregating all violations into one error.
func (t *DocumentTree) ValidateNames() error {
	var errs []error
	t.validateNames(&errs)
	return config.Aggregate(errs)
}

func (t *DocumentTree) validateNames(errs *[]error) {
	seen := map[string]vpath.Path{}
	for _, item := range t.Content {
		name := item.ItemPath().Name()
		if first, ok := seen[name]; ok {
			*errs = append(*errs, fmt.Errorf("duplicate name %q in tree %s (first at %s)", name, t.Path, first))
			continue
		}
		seen[name] = item.ItemPath()
		if sub, ok := item.(*DocumentTree); ok {
			sub.validateNames(errs)
		}
	}
}

// Documents returns all documents of the tree in depth-first order,
// including title documents.
func (t *DocumentTree) Documents() []*Document {
	var out []*Document
	if t.TitleDocument != nil {
		out = append(out, t.TitleDocument)
	}
	for _, item := range t.Content {
		switch c := item.(type) {
		case *Document:
			out = append(out, c)
		case *DocumentTree:
			out = append(out, c.Documents()...)
		}
	}
	return out
}

// TreeRoot wraps the top-level tree together with the cross-cutting
// concerns of a whole input set: an optional cover document, the registry
// of static files passed through untouched, and per-format style
// declarations.
type TreeRoot struct {
	Tree            *DocumentTree
	CoverDocument   *Document
	StaticDocuments []vpath.Path
	Styles          map[string]styles.Set
}

// AllDocuments returns every document of the root, cover included.
func (r *TreeRoot) AllDocuments() []*Document {
	var out []*Document
	if r.CoverDocument != nil {
		out = append(out, r.CoverDocument)
	}
	if r.Tree != nil {
		out = append(out, r.Tree.Documents()...)
	}
	return out
}

// AssignPositions walks the tree and stamps each document and subtree with
// its coordinate. Called once after tree construction; rewrite passes
// preserve positions.
func (r *TreeRoot) AssignPositions() {
	if r.Tree != nil {
		assignPositions(r.Tree, TreePosition{})
	}
}

func assignPositions(t *DocumentTree, pos TreePosition) {
	t.Position = pos
	if t.TitleDocument != nil {
		t.TitleDocument.Position = pos
	}
	for i, item := range t.Content {
		child := pos.ForChild(i + 1)
		switch c := item.(type) {
		case *Document:
			c.Position = child
		case *DocumentTree:
			assignPositions(c, child)
		}
	}
}

// StyleTargetOf adapts an element to the selector-matching representation.
func StyleTargetOf(e Element) styles.Target {
	target := styles.Target{TypeName: TypeName(e)}
	if c, ok := e.(Customizable); ok {
		opts := c.Options()
		target.ID = opts.ID
		target.StyleNames = opts.Styles
	}
	return target
}
