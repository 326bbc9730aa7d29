package template

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgallion1/docweave/ast"
)

// bodyDirectives names the directives whose call opens a body terminated
// by "@:@". All other directives are self-contained calls.
var bodyDirectives = map[string]bool{
	"for":     true,
	"if":      true,
	"select":  true,
	"callout": true,
	"style":   true,
	"format":  true,
}

// partKeys names the separators that split a directive body into parts.
var partKeys = map[string]bool{
	"elseIf": true,
	"else":   true,
	"empty":  true,
	"case":   true,
}

// Parse parses template markup into a template root. Context references
// are written "${ref}" (required) or "${?ref}" (optional); directives are
// written "@:name(arg)", followed for body directives by template content
// up to the matching "@:@". Separators like "@:else" divide a body into
// keyed parts. Everything else is literal text.
func Parse(source string) (ast.TemplateRoot, error) {
	p := &parser{src: source}
	spans, st, err := p.spans()
	if err != nil {
		return ast.TemplateRoot{}, err
	}
	switch st.kind {
	case stopEnd:
		return ast.TemplateRoot{}, fmt.Errorf("unmatched @:@ at offset %d", st.offset)
	case stopPart:
		return ast.TemplateRoot{}, fmt.Errorf("separator @:%s outside a directive body at offset %d", st.key, st.offset)
	}
	return ast.TemplateRoot{Content: spans}, nil
}

type parser struct {
	src string
	pos int
}

const (
	stopEOF = iota
	stopEnd
	stopPart
)

// stop records why a span sequence ended.
type stop struct {
	kind   int
	key    string
	arg    string
	offset int
}

func (p *parser) spans() ([]ast.TemplateSpan, stop, error) {
	var out []ast.TemplateSpan
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		switch {
		case strings.HasPrefix(rest, "@:@"):
			offset := p.pos
			p.pos += 3
			return out, stop{kind: stopEnd, offset: offset}, nil
		case strings.HasPrefix(rest, "@:"):
			if key, ok := p.peekPartKey(); ok {
				offset := p.pos
				p.pos += 2 + len(key)
				arg := p.arg()
				return out, stop{kind: stopPart, key: key, arg: arg, offset: offset}, nil
			}
			d, err := p.directive()
			if err != nil {
				return nil, stop{}, err
			}
			out = append(out, d)
		case strings.HasPrefix(rest, "${"):
			ref, err := p.reference()
			if err != nil {
				return nil, stop{}, err
			}
			out = append(out, ref)
		default:
			out = append(out, ast.TemplateString{Content: p.text()})
		}
	}
	return out, stop{kind: stopEOF, offset: p.pos}, nil
}

// text consumes literal content up to the next marker or end of input.
func (p *parser) text() string {
	start := p.pos
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		if strings.HasPrefix(rest, "${") || strings.HasPrefix(rest, "@:") {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) reference() (ast.TemplateContextReference, error) {
	start := p.pos
	p.pos += 2
	required := true
	if p.pos < len(p.src) && p.src[p.pos] == '?' {
		required = false
		p.pos++
	}
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return ast.TemplateContextReference{}, fmt.Errorf("unterminated reference at offset %d", start)
	}
	ref := strings.TrimSpace(p.src[p.pos : p.pos+end])
	p.pos += end + 1
	if ref == "" {
		return ast.TemplateContextReference{}, fmt.Errorf("empty reference at offset %d", start)
	}
	return ast.TemplateContextReference{Ref: ref, Required: required, Source: p.src[start:p.pos]}, nil
}

func (p *parser) directive() (ast.Directive, error) {
	start := p.pos
	p.pos += 2
	name := p.name()
	if name == "" {
		return ast.Directive{}, fmt.Errorf("missing directive name at offset %d", start)
	}
	d := ast.Directive{Name: name, Arg: p.arg()}
	if bodyDirectives[name] {
		body, parts, err := p.body(name, start)
		if err != nil {
			return ast.Directive{}, err
		}
		d.Body = body
		d.Parts = parts
	}
	d.Source = p.src[start:p.pos]
	return d, nil
}

// body consumes directive content up to the matching "@:@", splitting off
// keyed parts at each separator.
func (p *parser) body(name string, start int) ([]ast.TemplateSpan, []ast.DirectivePart, error) {
	main, st, err := p.spans()
	if err != nil {
		return nil, nil, err
	}
	var parts []ast.DirectivePart
	for st.kind == stopPart {
		part := ast.DirectivePart{Key: st.key, Arg: st.arg}
		part.Body, st, err = p.spans()
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, part)
	}
	if st.kind != stopEnd {
		return nil, nil, fmt.Errorf("unterminated directive %q at offset %d", name, start)
	}
	return main, parts, nil
}

// peekPartKey checks whether the "@:" at the current position introduces a
// body-part separator rather than a directive.
func (p *parser) peekPartKey() (string, bool) {
	save := p.pos
	p.pos += 2
	name := p.name()
	p.pos = save
	return name, partKeys[name]
}

func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// arg consumes an optional parenthesized argument after a directive name
// or separator key.
func (p *parser) arg() string {
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return ""
	}
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		return ""
	}
	arg := strings.TrimSpace(p.src[p.pos+1 : p.pos+end])
	p.pos += end + 1
	return arg
}
