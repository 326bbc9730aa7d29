// Package vpath provides immutable virtual paths for addressing documents
// inside a parsed document tree. Paths are independent of the operating
// system's file system: they always use '/' separators and exist only in the
// in-memory namespace of a tree.
package vpath

import (
	"fmt"
	"strings"
)

// Path is an absolute location in the virtual tree, rooted at "/".
// The zero value is Root. Path is a comparable value type and can be used
// as a map key.
type Path struct {
	// canonical form without leading slash: "" for root, "a/b" otherwise
	p string
}

// Root is the top of the virtual namespace.
var Root = Path{}

// Parse converts a string to a Path. The string must start with '/'.
func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return Path{}, fmt.Errorf("not an absolute path: %q", s)
	}
	return Root.appendSegments(strings.Split(s, "/")), nil
}

// MustParse is Parse for statically known inputs; it panics on invalid input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) appendSegments(segs []string) Path {
	out := p
	for _, seg := range segs {
		switch seg {
		case "", ".":
		case "..":
			out = out.Parent()
		default:
			out = out.Child(seg)
		}
	}
	return out
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool { return p.p == "" }

// Segments returns the ordered segment names. Root has none.
func (p Path) Segments() []string {
	if p.p == "" {
		return nil
	}
	return strings.Split(p.p, "/")
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	if p.p == "" {
		return 0
	}
	return strings.Count(p.p, "/") + 1
}

// Name returns the last segment, or "/" for the root.
func (p Path) Name() string {
	if p.p == "" {
		return "/"
	}
	if i := strings.LastIndexByte(p.p, '/'); i >= 0 {
		return p.p[i+1:]
	}
	return p.p
}

// Basename returns the name without its suffix.
func (p Path) Basename() string {
	name := p.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// Suffix returns the portion of the name after the last '.', or "" if the
// name has no suffix.
func (p Path) Suffix() string {
	name := p.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i+1:]
	}
	return ""
}

// WithSuffix returns a path whose name carries the given suffix, replacing
// any existing one. It is a no-op when the suffix already matches.
func (p Path) WithSuffix(suffix string) Path {
	if p.IsRoot() || p.Suffix() == suffix {
		return p
	}
	return p.Parent().Child(p.Basename() + "." + suffix)
}

// Parent returns the containing path; the parent of Root is Root.
func (p Path) Parent() Path {
	if p.p == "" {
		return Root
	}
	if i := strings.LastIndexByte(p.p, '/'); i >= 0 {
		return Path{p: p.p[:i]}
	}
	return Root
}

// Child appends a single segment.
func (p Path) Child(name string) Path {
	if p.p == "" {
		return Path{p: name}
	}
	return Path{p: p.p + "/" + name}
}

// Join combines p with a relative path: rel.Parents trailing segments are
// dropped first, then rel's segments are appended. Dropping more segments
// than exist clamps to Root rather than failing.
func (p Path) Join(rel RelativePath) Path {
	out := p
	for i := 0; i < rel.parents; i++ {
		out = out.Parent()
	}
	if rel.p == "" {
		return out
	}
	return out.appendSegments(strings.Split(rel.p, "/"))
}

// RelativeTo computes the shortest relative path leading from other to p:
// the common prefix is eliminated, other's remaining depth becomes parent
// levels and p's remaining segments are kept.
func (p Path) RelativeTo(other Path) RelativePath {
	a := p.Segments()
	b := other.Segments()
	common := 0
	for common < len(a) && common < len(b) && a[common] == b[common] {
		common++
	}
	return RelativePath{
		parents: len(b) - common,
		p:       strings.Join(a[common:], "/"),
	}
}

// IsSubPath reports whether p lies at or below other. Every path is a
// subpath of Root, and the relation is reflexive.
func (p Path) IsSubPath(other Path) bool {
	if other.IsRoot() {
		return true
	}
	return p.p == other.p || strings.HasPrefix(p.p, other.p+"/")
}

func (p Path) String() string { return "/" + p.p }

// RelativePath is a location expressed relative to some unspecified absolute
// path: a number of parent levels followed by segment names. The zero value
// is Current. RelativePath is a comparable value type.
type RelativePath struct {
	parents int
	p       string
}

// Current is the relative path pointing at the reference path itself.
var Current = RelativePath{}

// ParseRelative converts a string like "../images/logo.png" to a
// RelativePath. Absolute strings are rejected.
func ParseRelative(s string) (RelativePath, error) {
	if strings.HasPrefix(s, "/") {
		return RelativePath{}, fmt.Errorf("not a relative path: %q", s)
	}
	var out RelativePath
	for _, seg := range strings.Split(s, "/") {
		switch seg {
		case "", ".":
		case "..":
			out = out.up()
		default:
			out = out.Child(seg)
		}
	}
	return out, nil
}

func (r RelativePath) up() RelativePath {
	if r.p == "" {
		return RelativePath{parents: r.parents + 1}
	}
	if i := strings.LastIndexByte(r.p, '/'); i >= 0 {
		return RelativePath{parents: r.parents, p: r.p[:i]}
	}
	return RelativePath{parents: r.parents}
}

// Parents returns the number of leading "../" levels.
func (r RelativePath) Parents() int { return r.parents }

// Segments returns the ordered segment names.
func (r RelativePath) Segments() []string {
	if r.p == "" {
		return nil
	}
	return strings.Split(r.p, "/")
}

// IsCurrent reports whether r points at the reference path itself.
func (r RelativePath) IsCurrent() bool { return r.parents == 0 && r.p == "" }

// Child appends a single segment.
func (r RelativePath) Child(name string) RelativePath {
	if r.p == "" {
		return RelativePath{parents: r.parents, p: name}
	}
	return RelativePath{parents: r.parents, p: r.p + "/" + name}
}

// Name returns the last segment, or "." when r is Current.
func (r RelativePath) Name() string {
	if r.p == "" {
		return "."
	}
	if i := strings.LastIndexByte(r.p, '/'); i >= 0 {
		return r.p[i+1:]
	}
	return r.p
}

// Suffix returns the portion of the name after the last '.', or "".
func (r RelativePath) Suffix() string {
	name := r.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 && name != "." {
		return name[i+1:]
	}
	return ""
}

// WithSuffix returns a relative path whose name carries the given suffix.
func (r RelativePath) WithSuffix(suffix string) RelativePath {
	if r.p == "" || r.Suffix() == suffix {
		return r
	}
	name := r.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	up := r.up()
	return RelativePath{parents: up.parents, p: joinSeg(up.p, name+"."+suffix)}
}

func joinSeg(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

func (r RelativePath) String() string {
	if r.parents == 0 && r.p == "" {
		return "."
	}
	parts := make([]string, 0, r.parents+1)
	for i := 0; i < r.parents; i++ {
		parts = append(parts, "..")
	}
	if r.p != "" {
		parts = append(parts, r.p)
	}
	return strings.Join(parts, "/")
}
