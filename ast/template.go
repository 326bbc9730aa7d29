package ast

import (
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/vpath"
)

// TemplateRoot is the top-level container of a template document. After
// template application it also serves as the block holding the merged
// output, so it implements both roles.
type TemplateRoot struct {
	Content []TemplateSpan
}

// TemplateString is literal template text passed through verbatim.
type TemplateString struct {
	Content string
}

// TemplateContextReference is a substitution point like ${cursor.currentDocument.title}:
// a dotted reference resolved against the cursor at application time.
// Required references that do not resolve fail template application;
// optional ones resolve to nothing.
type TemplateContextReference struct {
	Ref      string
	Required bool
	Source   string
}

// TemplateElement lifts an arbitrary element into template context.
type TemplateElement struct {
	Element Element
}

// TemplateSpanSequence groups template spans.
type TemplateSpanSequence struct {
	Content []TemplateSpan
}

// EmbeddedRoot embeds a document's full block content inside a rendered
// template. Usable both as a block and as a template span.
type EmbeddedRoot struct {
	Content []Block
}

// DirectivePart is a named alternative section of a directive body, such
// as the branches of @:elseIf, @:else or @:empty.
type DirectivePart struct {
	Key  string
	Arg  string
	Body []TemplateSpan
}

// Directive is an unevaluated directive call. It occurs in all three
// element roles; the phase a directive evaluates in is determined by its
// registration, not by the node.
type Directive struct {
	Name   string
	Arg    string
	Body   []TemplateSpan
	Parts  []DirectivePart
	Source string
	Opts   Options
}

func (TemplateRoot) element()             {}
func (TemplateString) element()           {}
func (TemplateContextReference) element() {}
func (TemplateElement) element()          {}
func (TemplateSpanSequence) element()     {}
func (EmbeddedRoot) element()             {}
func (Directive) element()                {}

func (TemplateRoot) templateSpan()             {}
func (TemplateString) templateSpan()           {}
func (TemplateContextReference) templateSpan() {}
func (TemplateElement) templateSpan()          {}
func (TemplateSpanSequence) templateSpan()     {}
func (EmbeddedRoot) templateSpan()             {}
func (Directive) templateSpan()                {}

func (TemplateRoot) block() {}
func (EmbeddedRoot) block() {}
func (Directive) block()    {}
func (Directive) span()     {}

func (e EmbeddedRoot) BlockContent() []Block { return e.Content }

func (e Directive) Options() Options              { return e.Opts }
func (e Directive) WithOptions(o Options) Element { e.Opts = o; return e }

// TemplateDocument is a parsed template, applied to content documents
// during the render phase.
type TemplateDocument struct {
	Path    vpath.Path
	Content TemplateRoot
	Config  *config.Config
}
