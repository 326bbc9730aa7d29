// Package ast defines the document object model shared by all parsers and
// renderers: a closed set of element types for block and inline content,
// the template element variants, the document/tree aggregates and the
// bottom-up rewrite engine operating on them.
//
// Elements are immutable by convention: every operation that changes
// content returns a structurally new value and leaves its input untouched.
package ast

import "github.com/dgallion1/docweave/vpath"

// Element is implemented by every node of the document model.
type Element interface {
	element()
}

// Block is a top-level content unit: paragraphs, headers, lists, tables.
type Block interface {
	Element
	block()
}

// Span is an inline content unit nested inside blocks.
type Span interface {
	Element
	span()
}

// TemplateSpan is an inline unit that may only occur inside templates.
type TemplateSpan interface {
	Element
	templateSpan()
}

// Customizable is implemented by elements that carry an id and style names.
type Customizable interface {
	Element
	Options() Options
	WithOptions(Options) Element
}

// BlockContainer exposes a homogeneous block child sequence.
type BlockContainer interface {
	Element
	BlockContent() []Block
}

// SpanContainer exposes a homogeneous span child sequence.
type SpanContainer interface {
	Element
	SpanContent() []Span
}

// Options holds the id and style names of a customizable element.
type Options struct {
	ID     string
	Styles []string
}

// Merge combines two option sets: a later id overrides an earlier one and
// style name sets union, preserving first-seen order.
func (o Options) Merge(other Options) Options {
	out := Options{ID: o.ID}
	if other.ID != "" {
		out.ID = other.ID
	}
	seen := map[string]bool{}
	for _, s := range o.Styles {
		if !seen[s] {
			seen[s] = true
			out.Styles = append(out.Styles, s)
		}
	}
	for _, s := range other.Styles {
		if !seen[s] {
			seen[s] = true
			out.Styles = append(out.Styles, s)
		}
	}
	return out
}

// HasStyle reports whether the style name is present.
func (o Options) HasStyle(name string) bool {
	for _, s := range o.Styles {
		if s == name {
			return true
		}
	}
	return false
}

// Styled builds an Options value carrying the given style names.
func Styled(names ...string) Options {
	return Options{Styles: names}
}

// --- spans ---

// Text is a plain text span.
type Text struct {
	Content string
	Opts    Options
}

// Emphasized wraps spans rendered with emphasis.
type Emphasized struct {
	Content []Span
	Opts    Options
}

// Strong wraps spans rendered with strong emphasis.
type Strong struct {
	Content []Span
	Opts    Options
}

// Literal is an inline code span.
type Literal struct {
	Content string
	Opts    Options
}

// SpanSequence groups spans without any semantics of its own.
type SpanSequence struct {
	Content []Span
	Opts    Options
}

// ExternalLink points at a URL outside the document tree.
type ExternalLink struct {
	Content []Span
	Target  string
	Title   string
	Opts    Options
}

// InternalLink points at a document (or anchor inside one) of the same
// tree. It is the resolved form of a LinkReference.
type InternalLink struct {
	Content  []Span
	Path     vpath.Path
	Fragment string
	Opts     Options
}

// LinkReference is an unresolved link to a target addressed by name or
// relative path, produced by parsers and resolved during the resolve phase.
type LinkReference struct {
	Content []Span
	Ref     string
	Source  string
	Opts    Options
}

// Image embeds an image by URI.
type Image struct {
	Target string
	Alt    string
	Title  string
	Opts   Options
}

// InternalLinkTarget is an invisible anchor that internal links can point
// at via its id.
type InternalLinkTarget struct {
	Opts Options
}

// InvalidSpan replaces a span that could not be processed. It carries the
// failure message and the original source text so renderers can show
// either or both.
type InvalidSpan struct {
	Message  string
	Fallback string
	Opts     Options
}

func (Text) element()               {}
func (Emphasized) element()         {}
func (Strong) element()             {}
func (Literal) element()            {}
func (SpanSequence) element()       {}
func (ExternalLink) element()       {}
func (InternalLink) element()       {}
func (LinkReference) element()      {}
func (Image) element()              {}
func (InternalLinkTarget) element() {}
func (InvalidSpan) element()        {}

func (Text) span()               {}
func (Emphasized) span()         {}
func (Strong) span()             {}
func (Literal) span()            {}
func (SpanSequence) span()       {}
func (ExternalLink) span()       {}
func (InternalLink) span()       {}
func (LinkReference) span()      {}
func (Image) span()              {}
func (InternalLinkTarget) span() {}
func (InvalidSpan) span()        {}

func (e Emphasized) SpanContent() []Span    { return e.Content }
func (e Strong) SpanContent() []Span        { return e.Content }
func (e SpanSequence) SpanContent() []Span  { return e.Content }
func (e ExternalLink) SpanContent() []Span  { return e.Content }
func (e InternalLink) SpanContent() []Span  { return e.Content }
func (e LinkReference) SpanContent() []Span { return e.Content }

// --- blocks ---

// RootElement is the top-level container of a document's content.
type RootElement struct {
	Content []Block
}

// Paragraph is a span container block.
type Paragraph struct {
	Content []Span
	Opts    Options
}

// Header is a section heading with a level, 1 being the outermost.
type Header struct {
	Level   int
	Content []Span
	Opts    Options
}

// Title marks the document title heading.
type Title struct {
	Content []Span
	Opts    Options
}

// Section is a header together with the block content it governs.
// Sections nest: the build phase folds flat header sequences into them.
type Section struct {
	Header  Header
	Content []Block
}

// CodeBlock is a literal block of (optionally language-tagged) code.
type CodeBlock struct {
	Language string
	Content  string
	Opts     Options
}

// QuotedBlock is a block quote with an optional attribution line.
type QuotedBlock struct {
	Content     []Block
	Attribution []Span
	Opts        Options
}

// ListItem is one entry of a bullet or enumerated list.
type ListItem struct {
	Content []Block
}

// BulletList is an unordered list.
type BulletList struct {
	Items []ListItem
	Opts  Options
}

// EnumList is an ordered list starting at Start.
type EnumList struct {
	Items []ListItem
	Start int
	Opts  Options
}

// Cell is a single table cell holding block content.
type Cell struct {
	Content []Block
}

// Row is a sequence of table cells.
type Row struct {
	Cells []Cell
}

// Table is a block with separate header and body row groups.
type Table struct {
	Head []Row
	Body []Row
	Opts Options
}

// Rule is a horizontal rule.
type Rule struct {
	Opts Options
}

// PageBreak forces a page break in paginated output formats.
type PageBreak struct {
	Opts Options
}

// BlockSequence groups blocks without any semantics of its own.
type BlockSequence struct {
	Content []Block
	Opts    Options
}

// InvalidBlock replaces a block that could not be processed, carrying the
// failure message and a fallback rendering of the original content.
type InvalidBlock struct {
	Message  string
	Fallback Block
	Opts     Options
}

func (RootElement) element()   {}
func (Paragraph) element()     {}
func (Header) element()        {}
func (Title) element()         {}
func (Section) element()       {}
func (CodeBlock) element()     {}
func (QuotedBlock) element()   {}
func (ListItem) element()      {}
func (BulletList) element()    {}
func (EnumList) element()      {}
func (Cell) element()          {}
func (Row) element()           {}
func (Table) element()         {}
func (Rule) element()          {}
func (PageBreak) element()     {}
func (BlockSequence) element() {}
func (InvalidBlock) element()  {}

func (RootElement) block()   {}
func (Paragraph) block()     {}
func (Header) block()        {}
func (Title) block()         {}
func (Section) block()       {}
func (CodeBlock) block()     {}
func (QuotedBlock) block()   {}
func (ListItem) block()      {}
func (BulletList) block()    {}
func (EnumList) block()      {}
func (Table) block()         {}
func (Rule) block()          {}
func (PageBreak) block()     {}
func (BlockSequence) block() {}
func (InvalidBlock) block()  {}

func (e RootElement) BlockContent() []Block   { return e.Content }
func (e Section) BlockContent() []Block       { return e.Content }
func (e QuotedBlock) BlockContent() []Block   { return e.Content }
func (e ListItem) BlockContent() []Block      { return e.Content }
func (e Cell) BlockContent() []Block          { return e.Content }
func (e BlockSequence) BlockContent() []Block { return e.Content }

func (e Paragraph) SpanContent() []Span { return e.Content }
func (e Header) SpanContent() []Span    { return e.Content }
func (e Title) SpanContent() []Span     { return e.Content }

// --- options plumbing ---

func (e Text) Options() Options               { return e.Opts }
func (e Emphasized) Options() Options         { return e.Opts }
func (e Strong) Options() Options             { return e.Opts }
func (e Literal) Options() Options            { return e.Opts }
func (e SpanSequence) Options() Options       { return e.Opts }
func (e ExternalLink) Options() Options       { return e.Opts }
func (e InternalLink) Options() Options       { return e.Opts }
func (e LinkReference) Options() Options      { return e.Opts }
func (e Image) Options() Options              { return e.Opts }
func (e InternalLinkTarget) Options() Options { return e.Opts }
func (e InvalidSpan) Options() Options        { return e.Opts }
func (e Paragraph) Options() Options          { return e.Opts }
func (e Header) Options() Options             { return e.Opts }
func (e Title) Options() Options              { return e.Opts }
func (e CodeBlock) Options() Options          { return e.Opts }
func (e QuotedBlock) Options() Options        { return e.Opts }
func (e BulletList) Options() Options         { return e.Opts }
func (e EnumList) Options() Options           { return e.Opts }
func (e Table) Options() Options              { return e.Opts }
func (e Rule) Options() Options               { return e.Opts }
func (e PageBreak) Options() Options          { return e.Opts }
func (e BlockSequence) Options() Options      { return e.Opts }
func (e InvalidBlock) Options() Options       { return e.Opts }

func (e Text) WithOptions(o Options) Element               { e.Opts = o; return e }
func (e Emphasized) WithOptions(o Options) Element         { e.Opts = o; return e }
func (e Strong) WithOptions(o Options) Element             { e.Opts = o; return e }
func (e Literal) WithOptions(o Options) Element            { e.Opts = o; return e }
func (e SpanSequence) WithOptions(o Options) Element       { e.Opts = o; return e }
func (e ExternalLink) WithOptions(o Options) Element       { e.Opts = o; return e }
func (e InternalLink) WithOptions(o Options) Element       { e.Opts = o; return e }
func (e LinkReference) WithOptions(o Options) Element      { e.Opts = o; return e }
func (e Image) WithOptions(o Options) Element              { e.Opts = o; return e }
func (e InternalLinkTarget) WithOptions(o Options) Element { e.Opts = o; return e }
func (e InvalidSpan) WithOptions(o Options) Element        { e.Opts = o; return e }
func (e Paragraph) WithOptions(o Options) Element          { e.Opts = o; return e }
func (e Header) WithOptions(o Options) Element             { e.Opts = o; return e }
func (e Title) WithOptions(o Options) Element              { e.Opts = o; return e }
func (e CodeBlock) WithOptions(o Options) Element          { e.Opts = o; return e }
func (e QuotedBlock) WithOptions(o Options) Element        { e.Opts = o; return e }
func (e BulletList) WithOptions(o Options) Element         { e.Opts = o; return e }
func (e EnumList) WithOptions(o Options) Element           { e.Opts = o; return e }
func (e Table) WithOptions(o Options) Element              { e.Opts = o; return e }
func (e Rule) WithOptions(o Options) Element               { e.Opts = o; return e }
func (e PageBreak) WithOptions(o Options) Element          { e.Opts = o; return e }
func (e BlockSequence) WithOptions(o Options) Element      { e.Opts = o; return e }
func (e InvalidBlock) WithOptions(o Options) Element       { e.Opts = o; return e }
