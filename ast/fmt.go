package ast

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeName returns the element's concrete type name, used for selector
// matching and diagnostics.
func TypeName(e Element) string {
	t := reflect.TypeOf(e)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Format renders an element tree as an indented outline for diagnostics
// and test failure output. It is never load-bearing: renderers define
// their own serialization.
func Format(e Element) string {
	var sb strings.Builder
	formatInto(&sb, e, 0)
	return sb.String()
}

func formatInto(sb *strings.Builder, e Element, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString(TypeName(e))
	if label := formatLabel(e); label != "" {
		sb.WriteString(" ")
		sb.WriteString(label)
	}
	sb.WriteString("\n")
	for _, child := range Children(e) {
		formatInto(sb, child, depth+1)
	}
}

func formatLabel(e Element) string {
	switch t := e.(type) {
	case Text:
		return fmt.Sprintf("%q", t.Content)
	case Literal:
		return fmt.Sprintf("%q", t.Content)
	case TemplateString:
		return fmt.Sprintf("%q", t.Content)
	case TemplateContextReference:
		return "${" + t.Ref + "}"
	case Header:
		return fmt.Sprintf("level=%d", t.Level)
	case CodeBlock:
		if t.Language != "" {
			return t.Language
		}
	case ExternalLink:
		return t.Target
	case InternalLink:
		return t.Path.String()
	case LinkReference:
		return t.Ref
	case Image:
		return t.Target
	case Directive:
		return "@:" + t.Name
	case InvalidSpan:
		return fmt.Sprintf("%q", t.Message)
	case InvalidBlock:
		return fmt.Sprintf("%q", t.Message)
	}
	return ""
}

// Children returns the direct child elements of any element, across all
// structural slots. Intended for generic traversal (diagnostics, style
// ancestry); the rewrite engine uses the typed per-slot accessors instead.
func Children(e Element) []Element {
	var out []Element
	switch t := e.(type) {
	case RootElement:
		for _, b := range t.Content {
			out = append(out, b)
		}
	case Section:
		out = append(out, t.Header)
		for _, b := range t.Content {
			out = append(out, b)
		}
	case QuotedBlock:
		for _, b := range t.Content {
			out = append(out, b)
		}
		for _, s := range t.Attribution {
			out = append(out, s)
		}
	case BulletList:
		for _, item := range t.Items {
			out = append(out, item)
		}
	case EnumList:
		for _, item := range t.Items {
			out = append(out, item)
		}
	case ListItem:
		for _, b := range t.Content {
			out = append(out, b)
		}
	case Table:
		for _, row := range append(append([]Row{}, t.Head...), t.Body...) {
			out = append(out, row)
		}
	case Row:
		for _, c := range t.Cells {
			out = append(out, c)
		}
	case Cell:
		for _, b := range t.Content {
			out = append(out, b)
		}
	case BlockSequence:
		for _, b := range t.Content {
			out = append(out, b)
		}
	case EmbeddedRoot:
		for _, b := range t.Content {
			out = append(out, b)
		}
	case TemplateRoot:
		for _, s := range t.Content {
			out = append(out, s)
		}
	case TemplateSpanSequence:
		for _, s := range t.Content {
			out = append(out, s)
		}
	case TemplateElement:
		out = append(out, t.Element)
	case Directive:
		for _, s := range t.Body {
			out = append(out, s)
		}
		for _, part := range t.Parts {
			for _, s := range part.Body {
				out = append(out, s)
			}
		}
	case InvalidBlock:
		if t.Fallback != nil {
			out = append(out, t.Fallback)
		}
	default:
		if sc, ok := e.(SpanContainer); ok {
			for _, s := range sc.SpanContent() {
				out = append(out, s)
			}
		}
	}
	return out
}
