package transform

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/cursor"
	"github.com/dgallion1/docweave/vpath"
)

// LinkTarget is one resolvable destination in the tree.
type LinkTarget struct {
	Path     vpath.Path
	Fragment string
}

// LinkIndex holds every link target of a tree: the document paths plus the
// anchors declared inside documents (section slugs, explicit targets, any
// element with an id). It is built once before the resolve phase and is
// read-only afterwards, so parallel document processing can share it.
type LinkIndex struct {
	documents map[vpath.Path]bool
	anchors   map[string][]LinkTarget
}

// BuildLinkIndex walks every document of the root and records its path and
// anchors. Duplicate anchors are kept; resolution reports them on use.
func BuildLinkIndex(root *ast.TreeRoot) *LinkIndex {
	idx := &LinkIndex{
		documents: map[vpath.Path]bool{},
		anchors:   map[string][]LinkTarget{},
	}
	for _, doc := range root.AllDocuments() {
		idx.documents[doc.Path] = true
		idx.indexAnchors(doc.Path, doc.Content)
		for _, frag := range doc.Fragments {
			idx.indexAnchors(doc.Path, frag)
		}
	}
	return idx
}

func (idx *LinkIndex) indexAnchors(path vpath.Path, el ast.Element) {
	if c, ok := el.(ast.Customizable); ok {
		if id := c.Options().ID; id != "" {
			idx.anchors[id] = append(idx.anchors[id], LinkTarget{Path: path, Fragment: id})
		}
	}
	for _, child := range ast.Children(el) {
		idx.indexAnchors(path, child)
	}
}

// Resolve maps a reference to a concrete target. References have the form
// "path", "#anchor" or "path#anchor"; path parts resolve relative to the
// referencing document, or absolutely when they start with '/'. A bare
// name that is no document resolves as an anchor.
func (idx *LinkIndex) Resolve(ref string, from vpath.Path) (LinkTarget, error) {
	pathPart, frag, hasFrag := strings.Cut(ref, "#")
	if pathPart == "" {
		if frag == "" {
			return LinkTarget{}, fmt.Errorf("empty link reference")
		}
		return idx.anchor(frag)
	}
	if abs, err := vpath.Parse(pathPart); err == nil {
		if idx.documents[abs] {
			return LinkTarget{Path: abs, Fragment: frag}, nil
		}
	} else if rel, err := vpath.ParseRelative(pathPart); err == nil {
		if target := from.Parent().Join(rel); idx.documents[target] {
			return LinkTarget{Path: target, Fragment: frag}, nil
		}
	}
	if !hasFrag {
		t, err := idx.anchor(pathPart)
		if err == nil || len(idx.anchors[pathPart]) > 1 {
			// Resolved, or a duplicate worth its own diagnostic.
			return t, err
		}
	}
	return LinkTarget{}, fmt.Errorf("unresolvable link target %q", ref)
}

func (idx *LinkIndex) anchor(name string) (LinkTarget, error) {
	targets := idx.anchors[name]
	switch len(targets) {
	case 0:
		return LinkTarget{}, fmt.Errorf("unresolvable link target %q", name)
	case 1:
		return targets[0], nil
	}
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path.String()
	}
	return LinkTarget{}, fmt.Errorf("duplicate link target %q in %s", name, strings.Join(paths, ", "))
}

// LinkRules resolves the link references of one document against the
// prebuilt index. Misses and duplicates become invalid spans carrying the
// diagnostic; the document itself keeps rendering.
func LinkRules(idx *LinkIndex, dc *cursor.DocumentCursor) ast.RewriteRules {
	return ast.RewriteRules{Spans: []ast.SpanRule{
		func(s ast.Span) (ast.Span, ast.RuleAction) {
			ref, ok := s.(ast.LinkReference)
			if !ok {
				return s, ast.Retain
			}
			target, err := idx.Resolve(ref.Ref, dc.Target.Path)
			if err != nil {
				return ast.InvalidSpan{Message: err.Error(), Fallback: ref.Source, Opts: ref.Opts}, ast.Replace
			}
			return ast.InternalLink{
				Content:  ref.Content,
				Path:     target.Path,
				Fragment: target.Fragment,
				Opts:     ref.Opts,
			}, ast.Replace
		},
	}}
}
