// Package template implements the directive protocol and template
// application. Directives are registered by name with the phase they
// evaluate in; the rewrite rules produced here replace directive nodes
// with their evaluation results and substitute context references.
//
// Evaluation is pure: a directive maps its parsed call and a document
// cursor to an element or an error. Errors never abort a tree; they are
// captured inline as invalid nodes carrying the message and the original
// directive source.
package template

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/cursor"
)

// Phase orders directive evaluation. Build directives synthesize
// structure, resolve directives need the fully built tree, and render
// directives depend on the output format.
type Phase int

const (
	PhaseBuild Phase = iota
	PhaseResolve
	PhaseRender
)

func (p Phase) String() string {
	switch p {
	case PhaseBuild:
		return "build"
	case PhaseResolve:
		return "resolve"
	default:
		return "render"
	}
}

// OutputContext parameterizes the render phase. Format is the immediate
// output format; FinalFormat differs when a format renders through an
// intermediate stage, such as EPUB rendering through xhtml.
type OutputContext struct {
	Format      string
	FinalFormat string
}

// Call is one parsed directive occurrence handed to an evaluator.
type Call struct {
	Name   string
	Arg    string
	Body   []ast.TemplateSpan
	Parts  []ast.DirectivePart
	Source string
	// Output is set during the render phase, nil otherwise.
	Output *OutputContext
	// Eval resolves a body against a (possibly re-scoped) cursor with the
	// full rule set of the current phase, including nested directives and
	// context references.
	Eval func(*cursor.DocumentCursor, []ast.TemplateSpan) []ast.TemplateSpan
}

// Part returns the first body part with the given key, or nil.
func (c Call) Part(key string) *ast.DirectivePart {
	for i := range c.Parts {
		if c.Parts[i].Key == key {
			return &c.Parts[i]
		}
	}
	return nil
}

// Evaluator is a directive implementation.
type Evaluator func(Call, *cursor.DocumentCursor) (ast.Element, error)

type registration struct {
	phase Phase
	eval  Evaluator
}

// Registry maps directive names to evaluators. The protocol itself is
// name-agnostic: rules delegate purely by lookup.
type Registry struct {
	directives map[string]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{directives: map[string]registration{}}
}

// Register binds a directive name to an evaluator running in the given
// phase. Later registrations replace earlier ones.
func (r *Registry) Register(name string, phase Phase, eval Evaluator) {
	r.directives[name] = registration{phase: phase, eval: eval}
}

// RulesFor returns a rules factory for one evaluation phase. Pass the
// output context only for the render phase.
func (r *Registry) RulesFor(phase Phase, output *OutputContext) cursor.RulesFactory {
	return func(dc *cursor.DocumentCursor) (ast.RewriteRules, error) {
		return r.rules(dc, phase, output), nil
	}
}

// rules builds the directive-resolution rules for one document cursor.
func (r *Registry) rules(dc *cursor.DocumentCursor, phase Phase, output *OutputContext) ast.RewriteRules {
	evalDirective := func(d ast.Directive) (ast.Element, bool, error) {
		reg, known := r.directives[d.Name]
		if !known {
			if phase == PhaseRender {
				return nil, true, fmt.Errorf("unknown directive: %s", d.Name)
			}
			return nil, false, nil
		}
		if reg.phase != phase {
			return nil, false, nil
		}
		call := Call{
			Name:   d.Name,
			Arg:    d.Arg,
			Body:   d.Body,
			Parts:  d.Parts,
			Source: d.Source,
			Output: output,
			Eval: func(scoped *cursor.DocumentCursor, body []ast.TemplateSpan) []ast.TemplateSpan {
				bodyRules := r.rules(scoped, phase, output).Join(referenceRules(scoped, nil))
				return bodyRules.RewriteTemplateSpans(body)
			},
		}
		result, err := reg.eval(call, dc)
		return result, true, err
	}

	return ast.RewriteRules{
		Templates: []ast.TemplateRule{
			func(s ast.TemplateSpan) (ast.TemplateSpan, ast.RuleAction) {
				d, ok := s.(ast.Directive)
				if !ok {
					return s, ast.Retain
				}
				result, handled, err := evalDirective(d)
				if !handled {
					return s, ast.Retain
				}
				if err != nil {
					return ast.TemplateElement{Element: ast.InvalidSpan{Message: err.Error(), Fallback: d.Source}}, ast.Replace
				}
				return toTemplateSpan(result), ast.Replace
			},
		},
		Spans: []ast.SpanRule{
			func(s ast.Span) (ast.Span, ast.RuleAction) {
				d, ok := s.(ast.Directive)
				if !ok {
					return s, ast.Retain
				}
				result, handled, err := evalDirective(d)
				if !handled {
					return s, ast.Retain
				}
				if err != nil {
					return ast.InvalidSpan{Message: err.Error(), Fallback: d.Source}, ast.Replace
				}
				return SpanOf(result), ast.Replace
			},
		},
		Blocks: []ast.BlockRule{
			func(b ast.Block) (ast.Block, ast.RuleAction) {
				d, ok := b.(ast.Directive)
				if !ok {
					return b, ast.Retain
				}
				result, handled, err := evalDirective(d)
				if !handled {
					return b, ast.Retain
				}
				if err != nil {
					fallback := ast.Paragraph{Content: []ast.Span{ast.Literal{Content: d.Source}}}
					return ast.InvalidBlock{Message: err.Error(), Fallback: fallback}, ast.Replace
				}
				return BlockOf(result), ast.Replace
			},
		},
	}
}

// referenceRules substitutes TemplateContextReference nodes. When errs is
// non-nil, a missing required reference is collected there and replaced by
// nothing (template application reports all misses together); otherwise it
// becomes an inline invalid span.
func referenceRules(dc *cursor.DocumentCursor, errs *[]error) ast.RewriteRules {
	return ast.RewriteRules{
		Templates: []ast.TemplateRule{
			func(s ast.TemplateSpan) (ast.TemplateSpan, ast.RuleAction) {
				ref, ok := s.(ast.TemplateContextReference)
				if !ok {
					return s, ast.Retain
				}
				value, found := dc.Resolver().Resolve(ref.Ref)
				if !found {
					if !ref.Required {
						return ast.TemplateString{}, ast.Replace
					}
					err := &config.Error{Key: ref.Ref, Origin: dc.Config.Origin(), Message: "unresolved reference"}
					if errs != nil {
						*errs = append(*errs, err)
						return ast.TemplateString{}, ast.Replace
					}
					return ast.TemplateElement{Element: ast.InvalidSpan{Message: err.Error(), Fallback: ref.Source}}, ast.Replace
				}
				return valueToTemplateSpan(value), ast.Replace
			},
		},
	}
}

// toTemplateSpan places a directive result into template context.
func toTemplateSpan(e ast.Element) ast.TemplateSpan {
	switch t := e.(type) {
	case nil:
		return ast.TemplateSpanSequence{}
	case ast.TemplateSpan:
		return t
	case ast.RootElement:
		return ast.EmbeddedRoot{Content: t.Content}
	default:
		return ast.TemplateElement{Element: e}
	}
}

// valueToTemplateSpan renders a resolved reference value.
func valueToTemplateSpan(v any) ast.TemplateSpan {
	switch t := v.(type) {
	case nil:
		return ast.TemplateString{}
	case ast.RootElement:
		return ast.EmbeddedRoot{Content: t.Content}
	case ast.TemplateSpan:
		return t
	case ast.Element:
		return ast.TemplateElement{Element: t}
	default:
		return ast.TemplateString{Content: formatValue(v)}
	}
}

// formatValue renders a scalar reference value as text.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// SpanOf places a directive result into span context.
func SpanOf(e ast.Element) ast.Span {
	switch t := e.(type) {
	case nil:
		return ast.SpanSequence{}
	case ast.Span:
		return t
	case ast.TemplateString:
		return ast.Text{Content: t.Content}
	case ast.TemplateSpanSequence:
		spans := make([]ast.Span, 0, len(t.Content))
		for _, s := range t.Content {
			spans = append(spans, SpanOf(s))
		}
		return ast.SpanSequence{Content: spans}
	case ast.TemplateElement:
		return SpanOf(t.Element)
	default:
		return ast.InvalidSpan{Message: fmt.Sprintf("%s in span position", ast.TypeName(e))}
	}
}

// BlockOf places a directive result into block context.
func BlockOf(e ast.Element) ast.Block {
	switch t := e.(type) {
	case nil:
		return ast.BlockSequence{}
	case ast.Block:
		return t
	case ast.Span:
		return ast.Paragraph{Content: []ast.Span{t}}
	case ast.TemplateString:
		return ast.Paragraph{Content: []ast.Span{ast.Text{Content: t.Content}}}
	case ast.TemplateSpanSequence:
		return ast.Paragraph{Content: []ast.Span{SpanOf(t)}}
	case ast.TemplateElement:
		return BlockOf(t.Element)
	default:
		return ast.InvalidBlock{Message: fmt.Sprintf("%s in block position", ast.TypeName(e))}
	}
}
