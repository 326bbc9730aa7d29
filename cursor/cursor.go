// Package cursor provides the ephemeral navigation layer used during a
// rewrite pass. Cursors mirror the immutable document tree and add what
// the tree itself deliberately lacks: parent and root access, accumulated
// configuration, and a reference-resolution scope per document.
//
// Cursors are created fresh for each pass and discarded afterwards; they
// are a transient view, never persisted state. Parent and root fields are
// non-owning back-references used for lookup only.
package cursor

import (
	"sort"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/vpath"
)

// RulesFactory produces the rewrite rules for one specific document, so
// rules can depend on that document's position and configuration. It is
// invoked exactly once per document cursor and pass.
type RulesFactory func(*DocumentCursor) (ast.RewriteRules, error)

// Cursor is a node of the cursor tree: either a *TreeCursor or a
// *DocumentCursor.
type Cursor interface {
	CursorPath() vpath.Path
	rewriteItem(f RulesFactory) (ast.TreeItem, error)
}

// RootCursor wraps a TreeRoot for one rewrite pass.
type RootCursor struct {
	Target *ast.TreeRoot

	tree  *TreeCursor
	cover *DocumentCursor
}

// NewRoot builds the cursor tree for a rewrite pass over root.
func NewRoot(target *ast.TreeRoot) *RootCursor {
	return &RootCursor{Target: target}
}

// Tree returns the cursor for the main document tree, built lazily.
func (rc *RootCursor) Tree() *TreeCursor {
	if rc.tree == nil && rc.Target.Tree != nil {
		rc.tree = newTreeCursor(rc.Target.Tree, nil, rc)
	}
	return rc.tree
}

// Cover returns the cursor for the cover document, or nil.
func (rc *RootCursor) Cover() *DocumentCursor {
	if rc.cover == nil && rc.Target.CoverDocument != nil {
		rc.cover = newDocumentCursor(rc.Target.CoverDocument, rc.Tree())
	}
	return rc.cover
}

// RewriteTarget rewrites the whole root: the cover document and the main
// tree, reassembled into a new TreeRoot.
func (rc *RootCursor) RewriteTarget(f RulesFactory) (*ast.TreeRoot, error) {
	out := *rc.Target
	if tc := rc.Tree(); tc != nil {
		tree, err := tc.RewriteTarget(f)
		if err != nil {
			return nil, err
		}
		out.Tree = tree
	}
	if cc := rc.Cover(); cc != nil {
		cover, err := cc.RewriteTarget(f)
		if err != nil {
			return nil, err
		}
		out.CoverDocument = cover
	}
	return &out, nil
}

// TreeCursor wraps one DocumentTree level. Its config is the tree's own
// configuration with fallback to the parent's accumulated config.
type TreeCursor struct {
	Target   *ast.DocumentTree
	Parent   *TreeCursor
	Root     *RootCursor
	Config   *config.Config
	Position ast.TreePosition

	children []Cursor
}

func newTreeCursor(target *ast.DocumentTree, parent *TreeCursor, root *RootCursor) *TreeCursor {
	cfg := target.Config
	if parent != nil {
		cfg = cfg.WithFallback(parent.Config)
	}
	return &TreeCursor{
		Target:   target,
		Parent:   parent,
		Root:     root,
		Config:   cfg,
		Position: target.Position,
	}
}

func (tc *TreeCursor) CursorPath() vpath.Path { return tc.Target.Path }

// Children returns cursors for the tree's content in navigation order:
// names listed under the config key "navigationOrder" come first in list
// order, everything else follows sorted by name. Without the key the
// storage order is kept. The cursor list is built lazily once per pass.
func (tc *TreeCursor) Children() []Cursor {
	if tc.children != nil {
		return tc.children
	}
	items := tc.navigationSorted()
	tc.children = make([]Cursor, 0, len(items))
	for _, item := range items {
		switch c := item.(type) {
		case *ast.Document:
			tc.children = append(tc.children, newDocumentCursor(c, tc))
		case *ast.DocumentTree:
			tc.children = append(tc.children, newTreeCursor(c, tc, tc.Root))
		}
	}
	return tc.children
}

func (tc *TreeCursor) navigationSorted() []ast.TreeItem {
	items := make([]ast.TreeItem, len(tc.Target.Content))
	copy(items, tc.Target.Content)

	order, err := tc.Config.GetStringList("navigationOrder")
	if err != nil {
		return items
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, iListed := rank[items[i].ItemPath().Name()]
		rj, jListed := rank[items[j].ItemPath().Name()]
		switch {
		case iListed && jListed:
			return ri < rj
		case iListed:
			return true
		case jListed:
			return false
		default:
			return items[i].ItemPath().Name() < items[j].ItemPath().Name()
		}
	})
	return items
}

// Documents returns the document cursors of this level only.
func (tc *TreeCursor) Documents() []*DocumentCursor {
	var out []*DocumentCursor
	for _, c := range tc.Children() {
		if dc, ok := c.(*DocumentCursor); ok {
			out = append(out, dc)
		}
	}
	return out
}

// AllDocuments returns the document cursors of this subtree, depth-first
// in navigation order.
func (tc *TreeCursor) AllDocuments() []*DocumentCursor {
	var out []*DocumentCursor
	if tc.TitleDocument() != nil {
		out = append(out, tc.TitleDocument())
	}
	for _, c := range tc.Children() {
		switch t := c.(type) {
		case *DocumentCursor:
			out = append(out, t)
		case *TreeCursor:
			out = append(out, t.AllDocuments()...)
		}
	}
	return out
}

// TitleDocument returns a cursor for this level's title document, or nil.
func (tc *TreeCursor) TitleDocument() *DocumentCursor {
	if tc.Target.TitleDocument == nil {
		return nil
	}
	return newDocumentCursor(tc.Target.TitleDocument, tc)
}

// RewriteTarget rewrites the subtree below this cursor. Children are
// processed in navigation order and the new tree's content preserves that
// order, so downstream iteration matches the configured navigation.
func (tc *TreeCursor) RewriteTarget(f RulesFactory) (*ast.DocumentTree, error) {
	out := *tc.Target
	if td := tc.TitleDocument(); td != nil {
		doc, err := td.RewriteTarget(f)
		if err != nil {
			return nil, err
		}
		out.TitleDocument = doc
	}
	content := make([]ast.TreeItem, 0, len(tc.Children()))
	for _, child := range tc.Children() {
		item, err := child.rewriteItem(f)
		if err != nil {
			return nil, err
		}
		content = append(content, item)
	}
	out.Content = content
	return &out, nil
}

func (tc *TreeCursor) rewriteItem(f RulesFactory) (ast.TreeItem, error) {
	return tc.RewriteTarget(f)
}

// DocumentCursor wraps one document during a pass, carrying its resolved
// configuration and the reference-resolution scope chain.
type DocumentCursor struct {
	Target   *ast.Document
	Parent   *TreeCursor
	Config   *config.Config
	Position ast.TreePosition

	resolver *Resolver
}

func newDocumentCursor(target *ast.Document, parent *TreeCursor) *DocumentCursor {
	cfg := target.Config
	if parent != nil {
		cfg = cfg.WithFallback(parent.Config)
	}
	dc := &DocumentCursor{
		Target:   target,
		Parent:   parent,
		Config:   cfg,
		Position: target.Position,
	}
	dc.resolver = newDocumentResolver(dc, parentResolver(parent))
	return dc
}

func parentResolver(tc *TreeCursor) *Resolver {
	if tc == nil {
		return nil
	}
	grand := parentResolver(tc.Parent)
	if grand == nil && tc.Root != nil {
		grand = newRootResolver(tc.Root)
	}
	return newTreeResolver(tc, grand)
}

func (dc *DocumentCursor) CursorPath() vpath.Path { return dc.Target.Path }

// Resolver returns the reference resolver scoped to this document.
func (dc *DocumentCursor) Resolver() *Resolver { return dc.resolver }

// Root returns the root cursor, or nil for detached cursors.
func (dc *DocumentCursor) Root() *RootCursor {
	if dc.Parent == nil {
		return nil
	}
	return dc.Parent.Root
}

// WithReferenceContext returns a derived cursor sharing this cursor's tree
// position but overlaying a nested reference-resolution scope whose root
// is the given value. Used by directives that bind iteration variables.
func (dc *DocumentCursor) WithReferenceContext(value any) *DocumentCursor {
	out := *dc
	out.resolver = newValueResolver(value, dc.resolver)
	return &out
}

// RewriteTarget invokes the rules factory for this document and rewrites
// its content and fragments bottom-up.
func (dc *DocumentCursor) RewriteTarget(f RulesFactory) (*ast.Document, error) {
	rules, err := f(dc)
	if err != nil {
		return nil, err
	}
	out := *dc.Target
	out.Content = rules.RewriteRoot(out.Content)
	if len(out.Fragments) > 0 {
		fragments := make(map[string]ast.Element, len(out.Fragments))
		for name, el := range out.Fragments {
			if rewritten, keep := rewriteFragment(rules, el); keep {
				fragments[name] = rewritten
			}
		}
		out.Fragments = fragments
	}
	return &out, nil
}

func rewriteFragment(rules ast.RewriteRules, el ast.Element) (ast.Element, bool) {
	switch t := el.(type) {
	case ast.Block:
		nb, action := rules.RewriteBlock(t)
		return nb, action != ast.Remove
	case ast.Span:
		ns, action := rules.RewriteSpan(t)
		return ns, action != ast.Remove
	default:
		return el, true
	}
}

func (dc *DocumentCursor) rewriteItem(f RulesFactory) (ast.TreeItem, error) {
	return dc.RewriteTarget(f)
}

// NewDetachedDocument builds a cursor for a document outside any tree,
// useful in tests and for single-document processing.
func NewDetachedDocument(doc *ast.Document) *DocumentCursor {
	return newDocumentCursor(doc, nil)
}
