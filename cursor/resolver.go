package cursor

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
)

// Resolver resolves dotted context references like "config.person.name" or
// "cursor.currentDocument.title" against a chain of scopes. The first
// segment selects an entry point in the current scope; if it is unknown
// there, the whole reference is delegated to the parent resolver. The
// first scope that knows the entry point wins; partial matches are never
// merged across scopes.
type Resolver struct {
	scope  scope
	parent *Resolver
}

type scope interface {
	lookup(key string) (any, bool)
}

// Resolve navigates a dotted reference. A miss returns (nil, false) and is
// not an error: callers decide whether an unresolved reference matters.
func (r *Resolver) Resolve(ref string) (any, bool) {
	if r == nil || ref == "" {
		return nil, false
	}
	segs := strings.Split(ref, ".")
	if v, ok := r.scope.lookup(segs[0]); ok {
		return navigate(v, segs[1:])
	}
	return r.parent.Resolve(ref)
}

func newDocumentResolver(dc *DocumentCursor, parent *Resolver) *Resolver {
	return &Resolver{scope: documentScope{dc}, parent: parent}
}

func newTreeResolver(tc *TreeCursor, parent *Resolver) *Resolver {
	return &Resolver{scope: treeScope{tc}, parent: parent}
}

func newRootResolver(rc *RootCursor) *Resolver {
	return &Resolver{scope: rootScope{rc}}
}

func newValueResolver(value any, parent *Resolver) *Resolver {
	return &Resolver{scope: valueScope{value}, parent: parent}
}

type documentScope struct{ dc *DocumentCursor }

func (s documentScope) lookup(key string) (any, bool) {
	switch key {
	case "document":
		return s.dc.Target, true
	case "config":
		return s.dc.Config, true
	case "cursor":
		return s.dc, true
	default:
		// Bare keys resolve against the accumulated configuration, so
		// "person.name" works without the "config." prefix.
		return s.dc.Config.Get(key)
	}
}

type treeScope struct{ tc *TreeCursor }

func (s treeScope) lookup(key string) (any, bool) {
	switch key {
	case "tree":
		return s.tc.Target, true
	case "config":
		return s.tc.Config, true
	default:
		return s.tc.Config.Get(key)
	}
}

type rootScope struct{ rc *RootCursor }

func (s rootScope) lookup(key string) (any, bool) {
	switch key {
	case "root":
		return s.rc.Target, true
	default:
		return nil, false
	}
}

// valueScope binds a directive-local value, addressed as "_".
type valueScope struct{ value any }

func (s valueScope) lookup(key string) (any, bool) {
	if key == "_" {
		return s.value, true
	}
	return nil, false
}

// navigate walks the remaining reference segments through maps, sequences,
// configs, documents and arbitrary struct fields.
func navigate(v any, segs []string) (any, bool) {
	for i, seg := range segs {
		if seg == "" {
			return nil, false
		}
		switch cur := v.(type) {
		case map[string]any:
			next, ok := cur[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur) {
				return nil, false
			}
			v = cur[idx]
		case []string:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur) {
				return nil, false
			}
			v = cur[idx]
		case *config.Config:
			// Hand the remaining path to the config in one piece so
			// its own fallback chain applies.
			return cur.Get(strings.Join(segs[i:], "."))
		case *ast.Document:
			next, ok := documentField(cur, seg)
			if !ok {
				return nil, false
			}
			v = next
		case *ast.DocumentTree:
			next, ok := treeField(cur, seg)
			if !ok {
				return nil, false
			}
			v = next
		case *ast.TreeRoot:
			next, ok := rootField(cur, seg)
			if !ok {
				return nil, false
			}
			v = next
		case *DocumentCursor:
			next, ok := cursorField(cur, seg)
			if !ok {
				return nil, false
			}
			v = next
		default:
			next, ok := structField(v, seg)
			if !ok {
				return nil, false
			}
			v = next
		}
	}
	return v, true
}

func documentField(d *ast.Document, seg string) (any, bool) {
	switch seg {
	case "content":
		return d.Content, true
	case "title":
		return ast.SpanSequence{Content: d.Title()}, true
	case "path":
		return d.Path, true
	case "name":
		return d.Name(), true
	case "fragments":
		return fragmentsMap(d.Fragments), true
	case "position":
		return d.Position, true
	case "config":
		return d.Config, true
	default:
		return nil, false
	}
}

func fragmentsMap(fragments map[string]ast.Element) map[string]any {
	out := make(map[string]any, len(fragments))
	for k, v := range fragments {
		out[k] = v
	}
	return out
}

func treeField(t *ast.DocumentTree, seg string) (any, bool) {
	switch seg {
	case "path":
		return t.Path, true
	case "title":
		if t.TitleDocument != nil {
			return ast.SpanSequence{Content: t.TitleDocument.Title()}, true
		}
		return ast.SpanSequence{Content: []ast.Span{ast.Text{Content: ast.TitleFromName(t.Path.Basename())}}}, true
	case "position":
		return t.Position, true
	case "config":
		return t.Config, true
	default:
		return nil, false
	}
}

func rootField(r *ast.TreeRoot, seg string) (any, bool) {
	switch seg {
	case "tree":
		return r.Tree, true
	case "coverDocument":
		if r.CoverDocument == nil {
			return nil, false
		}
		return r.CoverDocument, true
	case "staticDocuments":
		paths := make([]any, len(r.StaticDocuments))
		for i, p := range r.StaticDocuments {
			paths[i] = p
		}
		return paths, true
	default:
		return nil, false
	}
}

func cursorField(dc *DocumentCursor, seg string) (any, bool) {
	switch seg {
	case "currentDocument":
		return dc.Target, true
	case "parent":
		if dc.Parent == nil {
			return nil, false
		}
		return dc.Parent.Target, true
	case "root":
		if dc.Root() == nil {
			return nil, false
		}
		return dc.Root().Target, true
	case "config":
		return dc.Config, true
	case "position":
		return dc.Position, true
	default:
		return nil, false
	}
}

// structField falls back to reflective bean-style access: a segment
// matches an exported field of the same name up to capitalization of the
// first letter.
func structField(v any, seg string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	name := strings.ToUpper(seg[:1]) + seg[1:]
	field := rv.FieldByName(name)
	if !field.IsValid() || !field.CanInterface() {
		return nil, false
	}
	return field.Interface(), true
}
