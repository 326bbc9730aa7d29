// Package styles implements CSS-like selector matching against document
// tree nodes. Selectors address a node by element type name, id and style
// names, optionally constrained by a parent selector, and declarations are
// merged by ascending specificity the same way CSS resolves rules.
//
// The package is deliberately independent of the AST: callers describe a
// node and its ancestor chain as plain Targets.
package styles

import "sort"

// Target describes one node for the purpose of selector matching.
type Target struct {
	TypeName   string
	ID         string
	StyleNames []string
}

func (t Target) hasStyle(name string) bool {
	for _, s := range t.StyleNames {
		if s == name {
			return true
		}
	}
	return false
}

// Specificity orders selectors the way CSS does: id predicates outrank
// style-name predicates, which outrank type predicates; declaration order
// breaks remaining ties.
type Specificity struct {
	IDs    int
	Styles int
	Types  int
	Order  int
}

// Compare returns a negative number, zero or a positive number when s is
// less specific than, equal to or more specific than other.
func (s Specificity) Compare(other Specificity) int {
	if s.IDs != other.IDs {
		return s.IDs - other.IDs
	}
	if s.Styles != other.Styles {
		return s.Styles - other.Styles
	}
	if s.Types != other.Types {
		return s.Types - other.Types
	}
	return s.Order - other.Order
}

// Selector matches a node by any combination of type name, id and required
// style names, optionally requiring a matching parent.
type Selector struct {
	TypeName   string
	ID         string
	StyleNames []string
	Parent     *ParentSelector
}

// ParentSelector constrains where a selector's parent must match:
// immediately above the node, or anywhere in its ancestor chain.
type ParentSelector struct {
	Selector  Selector
	Immediate bool
}

// Specificity computes the selector's weight, including parent selectors.
func (s Selector) Specificity() Specificity {
	spec := Specificity{Styles: len(s.StyleNames)}
	if s.ID != "" {
		spec.IDs = 1
	}
	if s.TypeName != "" {
		spec.Types = 1
	}
	if s.Parent != nil {
		p := s.Parent.Selector.Specificity()
		spec.IDs += p.IDs
		spec.Styles += p.Styles
		spec.Types += p.Types
	}
	return spec
}

// Matches reports whether the selector applies to target. The ancestor
// chain is given innermost first.
func (s Selector) Matches(target Target, ancestors []Target) bool {
	if s.TypeName != "" && s.TypeName != target.TypeName {
		return false
	}
	if s.ID != "" && s.ID != target.ID {
		return false
	}
	for _, name := range s.StyleNames {
		if !target.hasStyle(name) {
			return false
		}
	}
	if s.Parent == nil {
		return true
	}
	if len(ancestors) == 0 {
		return false
	}
	if s.Parent.Immediate {
		return s.Parent.Selector.Matches(ancestors[0], ancestors[1:])
	}
	for i := range ancestors {
		if s.Parent.Selector.Matches(ancestors[i], ancestors[i+1:]) {
			return true
		}
	}
	return false
}

// Declaration couples a selector with the style map it contributes.
type Declaration struct {
	Selector Selector
	Styles   map[string]string
}

// Set is an ordered collection of declarations, typically one per parsed
// style sheet.
type Set struct {
	decls []Declaration
}

// NewSet builds a Set preserving declaration order for tie-breaking.
func NewSet(decls ...Declaration) Set {
	return Set{decls: decls}
}

// Append returns a Set with the declarations of other appended after the
// receiver's, so later sheets win specificity ties.
func (set Set) Append(other Set) Set {
	out := make([]Declaration, 0, len(set.decls)+len(other.decls))
	out = append(out, set.decls...)
	out = append(out, other.decls...)
	return Set{decls: out}
}

// Collect merges the style maps of all declarations matching target,
// folding in ascending specificity so higher-specificity values win on key
// collisions.
func (set Set) Collect(target Target, ancestors []Target) map[string]string {
	type match struct {
		spec   Specificity
		styles map[string]string
	}
	var matches []match
	for i, d := range set.decls {
		if d.Selector.Matches(target, ancestors) {
			spec := d.Selector.Specificity()
			spec.Order = i
			matches = append(matches, match{spec: spec, styles: d.Styles})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].spec.Compare(matches[j].spec) < 0
	})
	out := map[string]string{}
	for _, m := range matches {
		for k, v := range m.styles {
			out[k] = v
		}
	}
	return out
}
