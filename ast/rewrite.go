package ast

// RuleAction is the outcome of applying one rewrite rule to an element.
type RuleAction int

const (
	// Retain keeps the element (with already-rewritten children) as is.
	// A rule that does not match its input returns Retain.
	Retain RuleAction = iota
	// Remove elides the element from its parent's child sequence.
	Remove
	// Replace substitutes a new element. The replacement is fed to the
	// remaining rules of the chain but its children are not re-processed.
	Replace
)

// RewriteRule is a partial transformation of a single element kind. A rule
// that is not defined for its input returns the input unchanged with
// Retain.
type RewriteRule[T Element] func(T) (T, RuleAction)

// BlockRule rewrites block elements.
type BlockRule = RewriteRule[Block]

// SpanRule rewrites span elements.
type SpanRule = RewriteRule[Span]

// TemplateRule rewrites template span elements.
type TemplateRule = RewriteRule[TemplateSpan]

// RewriteRules aggregates ordered rule chains per element kind. Chains
// compose by concatenation: when two rules match the same element, the
// first one's replacement is the second one's input.
type RewriteRules struct {
	Blocks    []BlockRule
	Spans     []SpanRule
	Templates []TemplateRule
}

// Join concatenates two rule aggregates, the receiver's rules running
// first.
func (r RewriteRules) Join(other RewriteRules) RewriteRules {
	return RewriteRules{
		Blocks:    append(append([]BlockRule{}, r.Blocks...), other.Blocks...),
		Spans:     append(append([]SpanRule{}, r.Spans...), other.Spans...),
		Templates: append(append([]TemplateRule{}, r.Templates...), other.Templates...),
	}
}

// IsEmpty reports whether no rules are registered.
func (r RewriteRules) IsEmpty() bool {
	return len(r.Blocks) == 0 && len(r.Spans) == 0 && len(r.Templates) == 0
}

// applyChain runs an ordered rule chain over a single element. A Replace
// feeds the replacement to the next rule; a Remove short-circuits the
// chain.
func applyChain[T Element](rules []RewriteRule[T], in T) (T, RuleAction) {
	out := in
	replaced := false
	for _, rule := range rules {
		next, action := rule(out)
		switch action {
		case Remove:
			var zero T
			return zero, Remove
		case Replace:
			out = next
			replaced = true
		}
	}
	if replaced {
		return out, Replace
	}
	return out, Retain
}

// RewriteRoot rewrites a full document content tree bottom-up.
func (r RewriteRules) RewriteRoot(root RootElement) RootElement {
	return RootElement{Content: r.RewriteBlocks(root.Content)}
}

// RewriteBlocks rewrites a block sequence, dropping removed elements.
// Nil input stays nil so a no-op rewrite is structurally identical.
func (r RewriteRules) RewriteBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if nb, action := r.RewriteBlock(b); action != Remove {
			out = append(out, nb)
		}
	}
	return out
}

// RewriteSpans rewrites a span sequence, dropping removed elements.
func (r RewriteRules) RewriteSpans(spans []Span) []Span {
	if spans == nil {
		return nil
	}
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if ns, action := r.RewriteSpan(s); action != Remove {
			out = append(out, ns)
		}
	}
	return out
}

// RewriteTemplateSpans rewrites a template span sequence.
func (r RewriteRules) RewriteTemplateSpans(spans []TemplateSpan) []TemplateSpan {
	if spans == nil {
		return nil
	}
	out := make([]TemplateSpan, 0, len(spans))
	for _, s := range spans {
		if ns, action := r.RewriteTemplateSpan(s); action != Remove {
			out = append(out, ns)
		}
	}
	return out
}

// RewriteBlock rewrites the children of a single block, then applies the
// block rule chain to the result. Traversal is strictly bottom-up: rules
// always see already-rewritten children.
func (r RewriteRules) RewriteBlock(b Block) (Block, RuleAction) {
	return applyChain(r.Blocks, r.rewriteBlockChildren(b))
}

// RewriteSpan rewrites the children of a single span, then applies the
// span rule chain.
func (r RewriteRules) RewriteSpan(s Span) (Span, RuleAction) {
	return applyChain(r.Spans, r.rewriteSpanChildren(s))
}

// RewriteTemplateSpan rewrites the children of a single template span,
// then applies the template rule chain.
func (r RewriteRules) RewriteTemplateSpan(s TemplateSpan) (TemplateSpan, RuleAction) {
	ns, action := r.rewriteTemplateChildren(s)
	if action == Remove {
		var zero TemplateSpan
		return zero, Remove
	}
	return applyChain(r.Templates, ns)
}

// rewriteBlockChildren rebuilds one block with rewritten children. Each
// container type applies the correct rule kind to each of its structural
// slots; this is deliberately not a generic fold.
func (r RewriteRules) rewriteBlockChildren(b Block) Block {
	switch t := b.(type) {
	case RootElement:
		t.Content = r.RewriteBlocks(t.Content)
		return t
	case Paragraph:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case Header:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case Title:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case Section:
		return r.rewriteSection(t)
	case QuotedBlock:
		t.Content = r.RewriteBlocks(t.Content)
		t.Attribution = r.RewriteSpans(t.Attribution)
		return t
	case BulletList:
		t.Items = r.rewriteListItems(t.Items)
		return t
	case EnumList:
		t.Items = r.rewriteListItems(t.Items)
		return t
	case Table:
		t.Head = r.rewriteRows(t.Head)
		t.Body = r.rewriteRows(t.Body)
		return t
	case BlockSequence:
		t.Content = r.RewriteBlocks(t.Content)
		return t
	case TemplateRoot:
		t.Content = r.RewriteTemplateSpans(t.Content)
		return t
	case EmbeddedRoot:
		t.Content = r.RewriteBlocks(t.Content)
		return t
	default:
		// Leaf blocks (CodeBlock, Rule, PageBreak, InvalidBlock,
		// unevaluated Directive) have no rewritable children.
		return b
	}
}

// rewriteSection rewrites a section's two structural slots: the header is
// run through the block chain individually, the body as a block sequence.
// When a rule replaces the header with something that is not a header, the
// replacement is prepended to the body instead of being discarded.
func (r RewriteRules) rewriteSection(s Section) Block {
	header := s.Header
	header.Content = r.RewriteSpans(header.Content)
	body := r.RewriteBlocks(s.Content)

	rewritten, action := applyChain(r.Blocks, Block(header))
	switch action {
	case Remove:
		return BlockSequence{Content: body}
	case Replace:
		if nh, ok := rewritten.(Header); ok {
			return Section{Header: nh, Content: body}
		}
		return BlockSequence{Content: append([]Block{rewritten}, body...)}
	default:
		return Section{Header: header, Content: body}
	}
}

// rewriteListItems applies the block chain to each item after rewriting
// its content. A replacement that is not a list item is wrapped into one
// so the list stays well-formed.
func (r RewriteRules) rewriteListItems(items []ListItem) []ListItem {
	if items == nil {
		return nil
	}
	out := make([]ListItem, 0, len(items))
	for _, item := range items {
		item.Content = r.RewriteBlocks(item.Content)
		rewritten, action := applyChain(r.Blocks, Block(item))
		switch action {
		case Remove:
			continue
		case Replace:
			if ni, ok := rewritten.(ListItem); ok {
				out = append(out, ni)
			} else {
				out = append(out, ListItem{Content: []Block{rewritten}})
			}
		default:
			out = append(out, item)
		}
	}
	return out
}

func (r RewriteRules) rewriteRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = Cell{Content: r.RewriteBlocks(cell.Content)}
		}
		out[i] = Row{Cells: cells}
	}
	return out
}

func (r RewriteRules) rewriteSpanChildren(s Span) Span {
	switch t := s.(type) {
	case Emphasized:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case Strong:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case SpanSequence:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case ExternalLink:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case InternalLink:
		t.Content = r.RewriteSpans(t.Content)
		return t
	case LinkReference:
		t.Content = r.RewriteSpans(t.Content)
		return t
	default:
		return s
	}
}

// rewriteTemplateChildren rebuilds one template span with rewritten
// children. A wrapped element whose rewrite removes it removes the whole
// template span, signalled by the extra action result.
func (r RewriteRules) rewriteTemplateChildren(s TemplateSpan) (TemplateSpan, RuleAction) {
	switch t := s.(type) {
	case TemplateRoot:
		t.Content = r.RewriteTemplateSpans(t.Content)
		return t, Retain
	case TemplateSpanSequence:
		t.Content = r.RewriteTemplateSpans(t.Content)
		return t, Retain
	case EmbeddedRoot:
		t.Content = r.RewriteBlocks(t.Content)
		return t, Retain
	case TemplateElement:
		switch e := t.Element.(type) {
		case Block:
			nb, action := r.RewriteBlock(e)
			if action == Remove {
				return nil, Remove
			}
			return TemplateElement{Element: nb}, Retain
		case Span:
			ns, action := r.RewriteSpan(e)
			if action == Remove {
				return nil, Remove
			}
			return TemplateElement{Element: ns}, Retain
		default:
			return t, Retain
		}
	default:
		// TemplateString, TemplateContextReference and unevaluated
		// Directive bodies are resolved by the directive machinery,
		// not by structural traversal.
		return s, Retain
	}
}
