package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/cursor"
)

// Default returns a registry holding the standard directive set.
func Default() *Registry {
	r := NewRegistry()
	r.Register("for", PhaseBuild, forDirective)
	r.Register("if", PhaseBuild, ifDirective)
	r.Register("select", PhaseBuild, selectDirective)
	r.Register("fragment", PhaseBuild, fragmentDirective)
	r.Register("style", PhaseBuild, styleDirective)
	r.Register("callout", PhaseBuild, calloutDirective)
	r.Register("icon", PhaseBuild, iconDirective)
	r.Register("attribute", PhaseBuild, attributeDirective)
	r.Register("target", PhaseBuild, targetDirective)
	r.Register("pageBreak", PhaseBuild, pageBreakDirective)
	r.Register("image", PhaseBuild, imageDirective)
	r.Register("toc", PhaseResolve, tocDirective)
	r.Register("breadcrumb", PhaseResolve, breadcrumbDirective)
	r.Register("navigationTree", PhaseResolve, navigationTreeDirective)
	r.Register("source", PhaseResolve, sourceDirective)
	r.Register("api", PhaseResolve, apiDirective)
	r.Register("format", PhaseRender, formatDirective)
	r.Register("linkCSS", PhaseRender, linkAssetDirective("css"))
	r.Register("linkJS", PhaseRender, linkAssetDirective("js"))
	return r
}

// forDirective iterates its body over the referenced value. Collections
// run the body once per element with the element bound as "_"; scalars and
// maps run it once with the whole value bound. A miss or empty collection
// runs the "empty" part instead, if present.
func forDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("for: missing reference argument")
	}
	value, found := dc.Resolver().Resolve(call.Arg)
	elements := collectionOf(value, found)
	if len(elements) == 0 {
		if part := call.Part("empty"); part != nil {
			return ast.TemplateSpanSequence{Content: call.Eval(dc, part.Body)}, nil
		}
		return ast.TemplateSpanSequence{}, nil
	}
	var out []ast.TemplateSpan
	for _, elem := range elements {
		out = append(out, call.Eval(dc.WithReferenceContext(elem), call.Body)...)
	}
	return ast.TemplateSpanSequence{Content: out}, nil
}

func collectionOf(v any, found bool) []any {
	if !found || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// ifDirective selects the first truthy branch among the main body and its
// elseIf parts, falling back to the else part.
func ifDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("if: missing reference argument")
	}
	if truthy(dc, call.Arg) {
		return ast.TemplateSpanSequence{Content: call.Eval(dc, call.Body)}, nil
	}
	for _, part := range call.Parts {
		switch part.Key {
		case "elseIf":
			if truthy(dc, part.Arg) {
				return ast.TemplateSpanSequence{Content: call.Eval(dc, part.Body)}, nil
			}
		case "else":
			return ast.TemplateSpanSequence{Content: call.Eval(dc, part.Body)}, nil
		}
	}
	return ast.TemplateSpanSequence{}, nil
}

// truthy reports whether a reference selects a branch. Only a bool true
// and the exact strings "true" and "on" count; everything else, including
// a missing key, is false.
func truthy(dc *cursor.DocumentCursor, ref string) bool {
	v, ok := dc.Resolver().Resolve(ref)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "on"
	default:
		return false
	}
}

// selectDirective compares the referenced value against its case parts and
// evaluates the first match, falling back to the else part.
func selectDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("select: missing reference argument")
	}
	value, _ := dc.Resolver().Resolve(call.Arg)
	selected := formatValue(value)
	for _, part := range call.Parts {
		if part.Key == "case" && part.Arg == selected {
			return ast.TemplateSpanSequence{Content: call.Eval(dc, part.Body)}, nil
		}
	}
	for _, part := range call.Parts {
		if part.Key == "else" {
			return ast.TemplateSpanSequence{Content: call.Eval(dc, part.Body)}, nil
		}
	}
	return ast.TemplateSpanSequence{}, nil
}

// fragmentDirective embeds a named fragment of the current document.
func fragmentDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("fragment: missing fragment name")
	}
	frag, ok := dc.Target.Fragments[call.Arg]
	if !ok {
		return nil, fmt.Errorf("fragment: no fragment %q in %s", call.Arg, dc.Target.Path)
	}
	return frag, nil
}

// styleDirective wraps its body in a span sequence carrying the given
// style names.
func styleDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	names := splitNames(call.Arg)
	if len(names) == 0 {
		return nil, fmt.Errorf("style: missing style name")
	}
	return ast.SpanSequence{
		Content: spansOf(call.Eval(dc, call.Body)),
		Opts:    ast.Styled(names...),
	}, nil
}

// calloutDirective renders its body as a highlighted block. The argument
// names the callout kind and becomes an additional style name.
func calloutDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	opts := ast.Styled("callout").Merge(ast.Styled(splitNames(call.Arg)...))
	content := []ast.Block{ast.Paragraph{Content: spansOf(call.Eval(dc, call.Body))}}
	return ast.QuotedBlock{Content: content, Opts: opts}, nil
}

// iconDirective embeds an icon image registered under the config key
// "icons.<name>".
func iconDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("icon: missing icon name")
	}
	uri, err := dc.Config.GetString("icons." + call.Arg)
	if err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	return ast.Image{Target: uri, Alt: call.Arg, Opts: ast.Styled("icon")}, nil
}

// attributeDirective inserts a configuration value as text.
func attributeDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("attribute: missing config key")
	}
	v, err := dc.Config.GetString(call.Arg)
	if err != nil {
		return nil, fmt.Errorf("attribute: %w", err)
	}
	return ast.TemplateString{Content: v}, nil
}

// targetDirective places an invisible link anchor with the given id.
func targetDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("target: missing anchor id")
	}
	return ast.InternalLinkTarget{Opts: ast.Options{ID: call.Arg}}, nil
}

func pageBreakDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	return ast.PageBreak{}, nil
}

// imageDirective embeds an image by URI.
func imageDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("image: missing image target")
	}
	return ast.Image{Target: call.Arg}, nil
}

// tocDirective renders a table of contents for the current tree level. The
// optional argument limits nesting depth.
func tocDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	tc := dc.Parent
	if tc == nil {
		return nil, fmt.Errorf("toc: document is not part of a tree")
	}
	depth := 0
	if call.Arg != "" {
		n, err := strconv.Atoi(call.Arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("toc: invalid depth %q", call.Arg)
		}
		depth = n
	}
	return ast.BulletList{Items: navigationList(tc, depth), Opts: ast.Styled("toc")}, nil
}

// breadcrumbDirective renders the ancestor chain of the current document,
// outermost first, joined by the separator argument.
func breadcrumbDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	separator := call.Arg
	if separator == "" {
		separator = " / "
	}
	var chain []ast.Span
	for tc := dc.Parent; tc != nil; tc = tc.Parent {
		chain = append([]ast.Span{treeLink(tc.Target)}, chain...)
	}
	spans := make([]ast.Span, 0, 2*len(chain)+1)
	for _, link := range chain {
		spans = append(spans, link, ast.Text{Content: separator})
	}
	spans = append(spans, ast.SpanSequence{Content: dc.Target.Title()})
	return ast.SpanSequence{Content: spans, Opts: ast.Styled("breadcrumb")}, nil
}

// navigationTreeDirective renders the full navigation tree from the root.
func navigationTreeDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	rc := dc.Root()
	if rc == nil {
		return nil, fmt.Errorf("navigationTree: document is not part of a tree")
	}
	return ast.BulletList{Items: navigationList(rc.Tree(), 0), Opts: ast.Styled("navigationTree")}, nil
}

// navigationList builds nested link lists over the cursor tree in
// navigation order. A depth of 0 means unlimited.
func navigationList(tc *cursor.TreeCursor, depth int) []ast.ListItem {
	var items []ast.ListItem
	for _, c := range tc.Children() {
		switch t := c.(type) {
		case *cursor.DocumentCursor:
			items = append(items, ast.ListItem{Content: []ast.Block{
				ast.Paragraph{Content: []ast.Span{documentLink(t.Target)}},
			}})
		case *cursor.TreeCursor:
			content := []ast.Block{ast.Paragraph{Content: []ast.Span{treeLink(t.Target)}}}
			if depth != 1 {
				next := depth
				if next > 1 {
					next--
				}
				if nested := navigationList(t, next); len(nested) > 0 {
					content = append(content, ast.BulletList{Items: nested})
				}
			}
			items = append(items, ast.ListItem{Content: content})
		}
	}
	return items
}

func documentLink(d *ast.Document) ast.Span {
	return ast.InternalLink{Content: d.Title(), Path: d.Path}
}

func treeLink(t *ast.DocumentTree) ast.Span {
	if t.TitleDocument != nil {
		return ast.InternalLink{Content: t.TitleDocument.Title(), Path: t.TitleDocument.Path}
	}
	return ast.Text{Content: ast.TitleFromName(t.Path.Basename())}
}

// sourceDirective renders a referenced value as a literal code block.
func sourceDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("source: missing reference argument")
	}
	value, ok := dc.Resolver().Resolve(call.Arg)
	if !ok {
		return nil, fmt.Errorf("source: unresolved reference %q", call.Arg)
	}
	return ast.CodeBlock{Content: formatValue(value)}, nil
}

// apiDirective links a symbol name into external API documentation rooted
// at the config key "api.baseUri".
func apiDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Arg == "" {
		return nil, fmt.Errorf("api: missing symbol name")
	}
	base, err := dc.Config.GetString("api.baseUri")
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	target := base + strings.ReplaceAll(call.Arg, ".", "/") + ".html"
	return ast.ExternalLink{
		Content: []ast.Span{ast.Literal{Content: call.Arg}},
		Target:  target,
		Opts:    ast.Styled("api"),
	}, nil
}

// formatDirective includes its body only when the output context matches
// one of the formats named in the argument.
func formatDirective(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
	if call.Output == nil {
		return nil, fmt.Errorf("format: no output context")
	}
	for _, name := range splitNames(call.Arg) {
		if name == call.Output.Format || name == call.Output.FinalFormat {
			return ast.TemplateSpanSequence{Content: call.Eval(dc, call.Body)}, nil
		}
	}
	return ast.TemplateSpanSequence{}, nil
}

// linkAssetDirective links all registered static documents with the given
// suffix, used for CSS and JS includes.
func linkAssetDirective(suffix string) Evaluator {
	return func(call Call, dc *cursor.DocumentCursor) (ast.Element, error) {
		rc := dc.Root()
		if rc == nil {
			return nil, fmt.Errorf("link assets: document is not part of a tree")
		}
		var spans []ast.Span
		for _, p := range rc.Target.StaticDocuments {
			if p.Suffix() != suffix {
				continue
			}
			spans = append(spans, ast.ExternalLink{Target: p.String(), Opts: ast.Styled(suffix + "-link")})
		}
		return ast.SpanSequence{Content: spans}, nil
	}
}

func splitNames(arg string) []string {
	var out []string
	for _, n := range strings.Split(arg, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// spansOf converts evaluated template content into regular spans.
func spansOf(spans []ast.TemplateSpan) []ast.Span {
	out := make([]ast.Span, 0, len(spans))
	for _, s := range spans {
		out = append(out, SpanOf(s))
	}
	return out
}
